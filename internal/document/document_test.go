package document

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDocx packages a w:body fragment into a minimal .docx, plus any extra parts.
func buildDocx(t *testing.T, body string, extra map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, content string) {
		fw, err := zw.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	write("[Content_Types].xml", contentTypesXML)
	write("_rels/.rels", packageRelsXML)
	write(documentPart, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<w:document xmlns:w="`+WordNamespace+`"><w:body>`+body+`<w:sectPr/></w:body></w:document>`)
	for name, content := range extra {
		write(name, content)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func rowTexts(tbl *Table) []string {
	var out []string
	for _, r := range tbl.Rows() {
		out = append(out, r.Text())
	}
	return out
}

func TestNew_AddTableAndParagraph(t *testing.T) {
	doc := New()
	doc.AddParagraph("Heading")
	tbl := doc.AddTable(2, 3)

	require.Len(t, doc.Tables(), 1)
	require.Len(t, tbl.Rows(), 2)
	assert.Len(t, tbl.Rows()[0].Cells(), 3)
	assert.Len(t, tbl.Rows()[0].Cells()[0].Paragraphs(), 1)
	assert.Len(t, doc.Paragraphs(), 1)
	assert.Equal(t, "Heading", doc.Paragraphs()[0].Text())

	// sectPr must stay the last body element
	children := doc.body.ChildElements()
	assert.Equal(t, "sectPr", children[len(children)-1].Tag)
}

func TestTable_InsertAndRemoveRows(t *testing.T) {
	doc := New()
	tbl := doc.AddTable(3, 1)
	for i, r := range tbl.Rows() {
		r.Cells()[0].SetText(string(rune('A' + i)))
	}
	assert.Equal(t, []string{"A", "B", "C"}, rowTexts(tbl))

	template := tbl.Rows()[1]
	for i, name := range []string{"x", "y"} {
		clone := template.Clone()
		clone.Cells()[0].SetText(name)
		tbl.InsertRowAt(tbl.IndexOf(template)+1+i, clone)
	}
	assert.Equal(t, []string{"A", "B", "x", "y", "C"}, rowTexts(tbl))

	assert.True(t, tbl.RemoveRow(template))
	assert.False(t, tbl.RemoveRow(template))
	assert.False(t, template.Attached())
	assert.Equal(t, []string{"A", "x", "y", "C"}, rowTexts(tbl))
	assert.Equal(t, -1, tbl.IndexOf(template))

	tbl.InsertRowAt(99, template)
	assert.Equal(t, []string{"A", "x", "y", "C", "B"}, rowTexts(tbl))
	tbl.InsertRowAt(-1, tbl.Rows()[4].Clone())
	assert.Equal(t, "B", rowTexts(tbl)[0])
}

func TestRow_CloneIsDeep(t *testing.T) {
	doc := New()
	tbl := doc.AddTable(1, 2)
	row := tbl.Rows()[0]
	run := row.Cells()[0].Paragraphs()[0].AddRun("{COMPANYNAME}")
	bold := true
	run.SetFormat(RunFormat{Bold: &bold, FontFamily: "Calibri"})

	clone := row.Clone()
	assert.False(t, clone.Attached())
	clone.Cells()[0].Paragraphs()[0].Runs()[0].SetText("Acme")

	assert.Equal(t, "{COMPANYNAME}\t", row.Text())
	assert.Equal(t, "Acme\t", clone.Text())
	f := clone.Cells()[0].Paragraphs()[0].Runs()[0].Format()
	require.NotNil(t, f.Bold)
	assert.True(t, *f.Bold)
	assert.Equal(t, "Calibri", f.FontFamily)
}

func TestParagraph_InsertParagraphAfterKeepsOrder(t *testing.T) {
	doc := New()
	first := doc.AddParagraph("one")
	doc.AddParagraph("four")

	cur := first
	for _, text := range []string{"two", "three"} {
		cur = cur.InsertParagraphAfter()
		cur.AddRun(text)
	}

	var texts []string
	for _, p := range doc.Paragraphs() {
		texts = append(texts, p.Text())
	}
	assert.Equal(t, []string{"one", "two", "three", "four"}, texts)
	assert.True(t, first.Next().Same(doc.Paragraphs()[1]))
}

func TestParagraph_RunsIncludeNestedContainers(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>Mail: </w:t></w:r>`+
		`<w:hyperlink><w:r><w:t>{EMAIL}</w:t></w:r></w:hyperlink>`+
		`<w:proofErr w:type="spellStart"/><w:r><w:t xml:space="preserve"> now</w:t><w:tab/><w:t>!</w:t></w:r></w:p>`, nil)
	doc, err := ReadBytes(data)
	require.NoError(t, err)

	p := doc.Paragraphs()[0]
	assert.Len(t, p.Runs(), 3)
	assert.Len(t, p.TextNodes(), 4)
	assert.Equal(t, "Mail: {EMAIL} now!", p.Text())
}

func TestRun_SetTextReplacesTextContent(t *testing.T) {
	tests := []struct {
		name     string
		run      string
		wantTags []string
	}{
		{
			name:     "text tab text",
			run:      `<w:r><w:rPr><w:b/></w:rPr><w:t>a</w:t><w:tab/><w:t>b</w:t></w:r>`,
			wantTags: []string{"rPr", "t"},
		},
		{
			name:     "break before text",
			run:      `<w:r><w:br/><w:t>a</w:t></w:r>`,
			wantTags: []string{"t"},
		},
		{
			name:     "drawing kept in place",
			run:      `<w:r><w:t>a</w:t><w:drawing/><w:tab/><w:t>b</w:t></w:r>`,
			wantTags: []string{"t", "drawing"},
		},
		{
			name:     "no text yet",
			run:      `<w:r><w:rPr><w:i/></w:rPr></w:r>`,
			wantTags: []string{"rPr", "t"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ReadBytes(buildDocx(t, `<w:p>`+tt.run+`</w:p>`, nil))
			require.NoError(t, err)

			run := doc.Paragraphs()[0].Runs()[0]
			run.SetText(" padded ")
			assert.Equal(t, " padded ", run.Text())

			var tags []string
			for _, c := range run.el.ChildElements() {
				tags = append(tags, c.Tag)
			}
			assert.Equal(t, tt.wantTags, tags)

			nodes := run.textNodes()
			require.Len(t, nodes, 1)
			assert.Equal(t, "preserve", nodes[0].el.SelectAttrValue("xml:space", ""))
		})
	}
}

func TestParagraph_TextSpans(t *testing.T) {
	doc, err := ReadBytes(buildDocx(t, `<w:p>`+
		`<w:r><w:t>{NA</w:t><w:tab/><w:t>ME}</w:t></w:r>`+
		`<w:r><w:t>{EM</w:t></w:r><w:r><w:t>AIL}</w:t></w:r>`+
		`<w:r><w:br/></w:r><w:r><w:t>tail</w:t><w:br/></w:r></w:p>`, nil))
	require.NoError(t, err)

	var got [][]string
	for _, span := range doc.Paragraphs()[0].TextSpans() {
		var values []string
		for _, n := range span {
			values = append(values, n.Value())
		}
		got = append(got, values)
	}
	assert.Equal(t, [][]string{{"{NA"}, {"ME}", "{EM", "AIL}"}, {"tail"}}, got)
}

func TestParagraphFormat_RoundTrip(t *testing.T) {
	doc := New()
	p := doc.AddParagraph("x")
	before, after, left := 120, 60, 360
	want := ParagraphFormat{
		Style:       "ListParagraph",
		Alignment:   "both",
		SpaceBefore: &before,
		SpaceAfter:  &after,
		LeftIndent:  &left,
	}
	p.SetFormat(want)
	assert.Equal(t, want, p.Format())

	pPr := firstChild(p.el, "w", "pPr")
	var tags []string
	for _, c := range pPr.ChildElements() {
		tags = append(tags, c.Tag)
	}
	assert.Equal(t, []string{"pStyle", "spacing", "ind", "jc"}, tags)

	p.SetFormat(ParagraphFormat{})
	assert.Equal(t, ParagraphFormat{}, p.Format())
	assert.Nil(t, firstChild(p.el, "w", "pPr"))
}

func TestParagraphFormat_ReadsStartEndIndent(t *testing.T) {
	data := buildDocx(t, `<w:p><w:pPr><w:ind w:start="720" w:end="240"/></w:pPr></w:p>`, nil)
	doc, err := ReadBytes(data)
	require.NoError(t, err)

	f := doc.Paragraphs()[0].Format()
	require.NotNil(t, f.LeftIndent)
	require.NotNil(t, f.RightIndent)
	assert.Equal(t, 720, *f.LeftIndent)
	assert.Equal(t, 240, *f.RightIndent)
}

func TestRunFormat_RoundTripAndOrder(t *testing.T) {
	doc := New()
	run := doc.AddParagraph("").AddRun("x")
	size := 22
	yes, no := true, false
	want := RunFormat{FontFamily: "Arial", Size: &size, Bold: &yes, Italic: &no, Underline: "single", Color: "1F3864"}
	run.SetFormat(want)
	assert.Equal(t, want, run.Format())

	rPr := firstChild(run.el, "w", "rPr")
	var tags []string
	for _, c := range rPr.ChildElements() {
		tags = append(tags, c.Tag)
	}
	assert.Equal(t, []string{"rFonts", "b", "i", "color", "sz", "szCs", "u"}, tags)
	// rPr precedes the text
	assert.Equal(t, "rPr", run.el.ChildElements()[0].Tag)
}

func TestRunFormat_ToggleValues(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:rPr><w:b/><w:i w:val="false"/></w:rPr><w:t>x</w:t></w:r></w:p>`, nil)
	doc, err := ReadBytes(data)
	require.NoError(t, err)

	f := doc.Paragraphs()[0].Runs()[0].Format()
	require.NotNil(t, f.Bold)
	require.NotNil(t, f.Italic)
	assert.True(t, *f.Bold)
	assert.False(t, *f.Italic)
}

func TestCopyRunFormat_KeepsDestinationColorWhenSourceHasNone(t *testing.T) {
	doc := New()
	p := doc.AddParagraph("")
	src := p.AddRun("src")
	dst := p.AddRun("dst")
	yes := true
	src.SetFormat(RunFormat{Bold: &yes})
	dst.SetFormat(RunFormat{Color: "FF0000", FontFamily: "Courier"})

	CopyRunFormat(src, dst)
	f := dst.Format()
	assert.Equal(t, "FF0000", f.Color)
	assert.Equal(t, "", f.FontFamily)
	require.NotNil(t, f.Bold)
	assert.True(t, *f.Bold)
}

func TestCopyParagraphFormat(t *testing.T) {
	doc := New()
	src := doc.AddParagraph("src")
	dst := doc.AddParagraph("dst")
	after := 0
	src.SetFormat(ParagraphFormat{Style: "Heading2", Alignment: "center", SpaceAfter: &after})

	CopyParagraphFormat(src, dst)
	assert.Equal(t, src.Format(), dst.Format())
	assert.Equal(t, "dst", dst.Text())
}

func TestSaveAndOpen_RoundTrip(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>{NAME}</w:t></w:r></w:p>`,
		map[string]string{"word/styles.xml": "<styles>keep me</styles>"})
	doc, err := ReadBytes(data)
	require.NoError(t, err)
	doc.Paragraphs()[0].Runs()[0].SetText("Jane Doe")

	path := filepath.Join(t.TempDir(), "out.docx")
	require.NoError(t, doc.Save(path))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", reopened.PlainText())

	var names []string
	for _, p := range reopened.parts {
		names = append(names, p.name)
		if p.name == "word/styles.xml" {
			assert.Equal(t, "<styles>keep me</styles>", string(p.data))
		}
	}
	assert.Equal(t, []string{"[Content_Types].xml", "_rels/.rels", documentPart, "word/styles.xml"}, names)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("PK")))
}

func TestBytes_Deterministic(t *testing.T) {
	data := buildDocx(t, `<w:tbl><w:tr><w:tc><w:p><w:r><w:t>a</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`, nil)

	first, err := ReadBytes(data)
	require.NoError(t, err)
	second, err := ReadBytes(data)
	require.NoError(t, err)

	b1, err := first.Bytes()
	require.NoError(t, err)
	b2, err := second.Bytes()
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestPlainText_TablesAndParagraphs(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>Title</w:t></w:r></w:p>`+
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>a</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>b</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`, nil)
	doc, err := ReadBytes(data)
	require.NoError(t, err)

	assert.Equal(t, "Title\na\tb", doc.PlainText())
	assert.Equal(t, "a\tb", doc.Tables()[0].Text())
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "nope.docx"))
		var loadErr *TemplateLoadError
		require.True(t, errors.As(err, &loadErr))
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assert.Contains(t, err.Error(), "nope.docx")
	})

	t.Run("not a zip", func(t *testing.T) {
		_, err := ReadBytes([]byte("plain text"))
		var loadErr *TemplateLoadError
		assert.True(t, errors.As(err, &loadErr))
	})

	t.Run("no document part", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		_, err := zw.Create("other.xml")
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		_, err = ReadBytes(buf.Bytes())
		var loadErr *TemplateLoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Contains(t, loadErr.Message, "word/document.xml")
	})

	t.Run("malformed xml", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		fw, err := zw.Create(documentPart)
		require.NoError(t, err)
		_, err = fw.Write([]byte("<w:document><w:body></w:document>"))
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		_, err = ReadBytes(buf.Bytes())
		var loadErr *TemplateLoadError
		assert.True(t, errors.As(err, &loadErr))
	})
}

func TestSaveError_BadPath(t *testing.T) {
	doc := New()
	err := doc.Save(filepath.Join(t.TempDir(), "missing-dir", "out.docx"))
	var saveErr *SaveError
	require.True(t, errors.As(err, &saveErr))
	assert.True(t, strings.HasPrefix(err.Error(), "save error"))
}
