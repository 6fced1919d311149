// Package document provides a mutable model of a .docx file: tables of rows of
// cells of paragraphs of runs, backed by the package's word/document.xml tree.
//
// Every view type (Table, Row, Cell, Paragraph, Run) is a thin handle over an
// XML element. Views are computed on demand, so positions are always read from
// the live tree and never go stale after an insertion or removal.
package document

import (
	"strings"
	"time"

	"github.com/beevik/etree"
)

const documentPart = "word/document.xml"

// Document is the root of a loaded .docx package.
// A Document is not safe for concurrent use; load one per generation.
type Document struct {
	parts []*part
	dom   *etree.Document
	body  *etree.Element
	ns    string
}

// part is one entry of the zip package. Everything except word/document.xml
// is written back exactly as it was read.
type part struct {
	name     string
	method   uint16
	modified time.Time
	data     []byte
}

func newDocument(parts []*part, dom *etree.Document) (*Document, error) {
	root := dom.Root()
	if root == nil || root.Tag != "document" {
		return nil, &TemplateLoadError{Message: "word/document.xml has no w:document root"}
	}
	ns := root.Space
	body := firstChild(root, ns, "body")
	if body == nil {
		return nil, &TemplateLoadError{Message: "word/document.xml has no w:body"}
	}
	return &Document{parts: parts, dom: dom, body: body, ns: ns}, nil
}

// Tables returns the top-level tables of the body in document order.
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, el := range childElements(d.body, d.ns, "tbl") {
		tables = append(tables, &Table{el: el, ns: d.ns})
	}
	return tables
}

// Paragraphs returns the top-level body paragraphs in document order.
func (d *Document) Paragraphs() []*Paragraph {
	return paragraphsOf(d.body, d.ns)
}

// AddParagraph appends a paragraph holding text to the end of the body.
func (d *Document) AddParagraph(text string) *Paragraph {
	el := etree.NewElement(qualify(d.ns, "p"))
	d.appendToBody(el)
	p := &Paragraph{el: el, ns: d.ns}
	if text != "" {
		p.AddRun(text)
	}
	return p
}

// AddTable appends a table of rows x cols empty cells to the end of the body.
func (d *Document) AddTable(rows, cols int) *Table {
	el := etree.NewElement(qualify(d.ns, "tbl"))
	tblPr := el.CreateElement(qualify(d.ns, "tblPr"))
	width := tblPr.CreateElement(qualify(d.ns, "tblW"))
	width.CreateAttr(qualify(d.ns, "w"), "0")
	width.CreateAttr(qualify(d.ns, "type"), "auto")
	grid := el.CreateElement(qualify(d.ns, "tblGrid"))
	for c := 0; c < cols; c++ {
		grid.CreateElement(qualify(d.ns, "gridCol"))
	}
	d.appendToBody(el)

	t := &Table{el: el, ns: d.ns}
	for r := 0; r < rows; r++ {
		t.AddRow(cols)
	}
	return t
}

// appendToBody adds el as the last block of the body, keeping a trailing
// w:sectPr in last position.
func (d *Document) appendToBody(el *etree.Element) {
	children := d.body.ChildElements()
	if n := len(children); n > 0 && isElement(children[n-1], d.ns, "sectPr") {
		d.body.InsertChildAt(children[n-1].Index(), el)
		return
	}
	d.body.AddChild(el)
}

// PlainText returns the text of the body in document order. Paragraphs are
// separated by newlines and table cells by tabs.
func (d *Document) PlainText() string {
	var lines []string
	for _, el := range d.body.ChildElements() {
		switch {
		case isElement(el, d.ns, "p"):
			lines = append(lines, (&Paragraph{el: el, ns: d.ns}).Text())
		case isElement(el, d.ns, "tbl"):
			for _, row := range (&Table{el: el, ns: d.ns}).Rows() {
				lines = append(lines, row.Text())
			}
		}
	}
	return strings.Join(lines, "\n")
}
