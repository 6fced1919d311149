package templating

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/stretchr/testify/require"
)

func paragraphTexts(paras []*document.Paragraph) []string {
	out := make([]string, len(paras))
	for i, p := range paras {
		out[i] = p.Text()
	}
	return out
}

// paragraphFromXML loads a one-paragraph document whose w:p body is given
// as raw WordprocessingML.
func paragraphFromXML(t *testing.T, inner string) *document.Paragraph {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = fw.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="` + document.WordNamespace + `"><w:body><w:p>` + inner +
		`</w:p><w:sectPr/></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	doc, err := document.ReadBytes(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, doc.Paragraphs(), 1)
	return doc.Paragraphs()[0]
}

func cellTexts(row *document.Row) []string {
	var out []string
	for _, c := range row.Cells() {
		out = append(out, c.Text())
	}
	return out
}

// newResumeTemplate builds a template with a contact table, an education and
// skills table, and a work experience table whose middle row is the record
// template.
func newResumeTemplate(t *testing.T) *document.Document {
	t.Helper()
	doc := document.New()
	doc.AddParagraph("Resume of {NAME}")

	info := doc.AddTable(3, 1)
	rows := info.Rows()
	rows[0].Cells()[0].SetText("{NAME} | {CONTACT} | {EMAIL}")
	rows[1].Cells()[0].SetText("{EDUCATION}")
	rows[2].Cells()[0].SetText("{SKILLS}")
	rows[2].Cells()[0].AddParagraph("{LANGUAGES}")

	work := doc.AddTable(3, 2)
	rows = work.Rows()
	rows[0].Cells()[0].SetText("Company")
	rows[0].Cells()[1].SetText("Details")
	rows[1].Cells()[0].SetText("{COMPANYNAME}")
	rows[1].Cells()[0].AddParagraph("{DURATION}")
	rows[1].Cells()[1].SetText("{JOBTITLE}")
	rows[1].Cells()[1].AddParagraph("{JOBDESCRIPTION}")
	rows[1].Cells()[1].AddParagraph("{ACHIEVEMENTS}")
	rows[2].Cells()[0].SetText("References")
	rows[2].Cells()[1].SetText("On request")

	require.Len(t, doc.Tables(), 2)
	return doc
}
