package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/types"
)

// fakeExtractor returns a fixed record and remembers the texts it was given
type fakeExtractor struct {
	record *types.ResumeRecord
	err    error

	mu    sync.Mutex
	texts []string
}

func (f *fakeExtractor) ExtractRecord(_ context.Context, text string) (*types.ResumeRecord, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	rec := *f.record
	return &rec, nil
}

func (f *fakeExtractor) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}

func janeRecord() *types.ResumeRecord {
	return &types.ResumeRecord{
		Name:          "Jane Doe",
		ContactNumber: "555-0100",
		Email:         "jane@example.com",
		Skills:        []string{"Go", "PostgreSQL"},
		Languages:     []string{"English"},
		Education: []types.Education{
			{Degree: "BSc Computer Science", Institution: "State University", Year: "2015", CGPA: "3.8"},
		},
		WorkExperience: []types.WorkExperience{
			{CompanyName: "acme corp", Duration: "2019-2023", JobTitle: "Engineer", JobDescription: []string{"Built services"}},
			{CompanyName: "Globex", Duration: "2016-2019", JobTitle: "Developer", JobDescription: []string{"Wrote tools"}},
		},
	}
}

// writeTemplate saves a small resume template to dir and returns its path
func writeTemplate(t *testing.T, dir string) string {
	t.Helper()
	doc := document.New()
	doc.AddParagraph("{NAME}")
	doc.AddParagraph("{CONTACT} | {EMAIL}")
	doc.AddParagraph("{EDUCATION}")
	doc.AddParagraph("{SKILLS}")

	work := doc.AddTable(2, 2)
	rows := work.Rows()
	rows[0].Cells()[0].SetText("Company")
	rows[0].Cells()[1].SetText("Role")
	rows[1].Cells()[0].SetText("{COMPANYNAME} ({DURATION})")
	rows[1].Cells()[1].SetText("{JOBTITLE}")
	rows[1].Cells()[1].AddParagraph("{JOBDESCRIPTION}")

	path := filepath.Join(dir, "template.docx")
	require.NoError(t, doc.Save(path))
	return path
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
