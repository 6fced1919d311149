package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
)

// Open loads a .docx template from disk.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &TemplateLoadError{Path: path, Message: "failed to read template", Cause: err}
	}
	doc, err := ReadBytes(data)
	if err != nil {
		if loadErr, ok := err.(*TemplateLoadError); ok {
			loadErr.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// ReadBytes loads a .docx package held in memory.
func ReadBytes(data []byte) (*Document, error) {
	return Read(bytes.NewReader(data), int64(len(data)))
}

// Read loads a .docx package from r.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &TemplateLoadError{Message: "not a valid .docx package", Cause: err}
	}

	parts := make([]*part, 0, len(zr.File))
	var main *part
	for _, f := range zr.File {
		data, err := readZipFile(f)
		if err != nil {
			return nil, &TemplateLoadError{Message: fmt.Sprintf("failed to read part %s", f.Name), Cause: err}
		}
		p := &part{name: f.Name, method: f.Method, modified: f.Modified, data: data}
		parts = append(parts, p)
		if f.Name == documentPart {
			main = p
		}
	}
	if main == nil {
		return nil, &TemplateLoadError{Message: "package has no word/document.xml"}
	}

	dom := etree.NewDocument()
	if err := dom.ReadFromBytes(main.data); err != nil {
		return nil, &TemplateLoadError{Message: "failed to parse word/document.xml", Cause: err}
	}
	return newDocument(parts, dom)
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

// Save writes the document to path, replacing any existing file.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		if saveErr, ok := err.(*SaveError); ok {
			saveErr.Path = path
		}
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &SaveError{Path: path, Message: "failed to write document", Cause: err}
	}
	return nil
}

// Bytes serializes the document into a .docx package.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes the document into a .docx package written to w.
// Parts are emitted in their original order with their original timestamps so
// the same tree always produces the same bytes.
func (d *Document) Write(w io.Writer) error {
	mainXML, err := d.dom.WriteToBytes()
	if err != nil {
		return &SaveError{Message: "failed to serialize word/document.xml", Cause: err}
	}

	zw := zip.NewWriter(w)
	for _, p := range d.parts {
		data := p.data
		if p.name == documentPart {
			data = mainXML
		}
		header := &zip.FileHeader{Name: p.name, Method: p.method, Modified: p.modified}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return &SaveError{Message: fmt.Sprintf("failed to create part %s", p.name), Cause: err}
		}
		if _, err := fw.Write(data); err != nil {
			return &SaveError{Message: fmt.Sprintf("failed to write part %s", p.name), Cause: err}
		}
	}
	if err := zw.Close(); err != nil {
		return &SaveError{Message: "failed to finalize package", Cause: err}
	}
	return nil
}

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

	emptyDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="` + WordNamespace + `"><w:body><w:sectPr/></w:body></w:document>`
)

// New returns an empty single-section document.
func New() *Document {
	parts := []*part{
		{name: "[Content_Types].xml", method: zip.Deflate, data: []byte(contentTypesXML)},
		{name: "_rels/.rels", method: zip.Deflate, data: []byte(packageRelsXML)},
		{name: documentPart, method: zip.Deflate, data: []byte(emptyDocumentXML)},
	}
	dom := etree.NewDocument()
	if err := dom.ReadFromString(emptyDocumentXML); err != nil {
		panic(fmt.Sprintf("document: invalid built-in document XML: %v", err))
	}
	doc, err := newDocument(parts, dom)
	if err != nil {
		panic(fmt.Sprintf("document: invalid built-in document XML: %v", err))
	}
	return doc
}
