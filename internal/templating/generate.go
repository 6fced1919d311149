package templating

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/types"
)

// Report summarizes one generation pass.
type Report struct {
	ScalarReplacements int   `json:"scalar_replacements"`
	ParagraphsInserted int   `json:"paragraphs_inserted"`
	RecordTableFound   bool  `json:"record_table_found"`
	RecordTableIndex   int   `json:"record_table_index"`
	RecordRows         int   `json:"record_rows"`
	SkippedTables      []int `json:"skipped_tables,omitempty"`
}

// Option configures Generate.
type Option func(*generator)

// WithBulletGlyph sets the prefix of expanded list items.
func WithBulletGlyph(glyph string) Option {
	return func(g *generator) {
		g.glyph = glyph
	}
}

// WithPlaceholders overrides the tokens looked up in the template. Empty
// tokens fall back to the defaults.
func WithPlaceholders(p Placeholders) Option {
	return func(g *generator) {
		g.tokens = p.withDefaults()
	}
}

type generator struct {
	glyph  string
	tokens Placeholders
	report *Report
}

// Generate fills doc in place from rec. Passes run in a fixed order: scalars,
// the multi-line education block, bullet lists, then the work experience rows.
// A nil record empties every placeholder. A document without a work
// experience template row is not an error; Report.RecordTableFound is false.
func Generate(doc *document.Document, rec *types.ResumeRecord, opts ...Option) (*Report, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is required")
	}
	if rec == nil {
		rec = &types.ResumeRecord{}
	}
	g := &generator{
		glyph:  BulletGlyph,
		tokens: DefaultPlaceholders(),
		report: &Report{RecordTableIndex: -1},
	}
	for _, opt := range opts {
		opt(g)
	}

	scalars := []struct {
		token string
		value string
	}{
		{g.tokens.Name, rec.Name},
		{g.tokens.Contact, rec.ContactNumber},
		{g.tokens.Email, rec.Email},
	}
	for _, p := range paragraphs(doc) {
		for _, s := range scalars {
			g.report.ScalarReplacements += SubstituteScalar(p, s.token, s.value)
		}
	}

	education := FormatEducation(rec.Education)
	for _, p := range paragraphs(doc) {
		if !containsToken(p, g.tokens.Education) {
			continue
		}
		if education == "" {
			g.report.ScalarReplacements += SubstituteScalar(p, g.tokens.Education, "")
			continue
		}
		g.report.ParagraphsInserted += ExpandMultiline(p, g.tokens.Education, education)
	}

	for _, p := range paragraphs(doc) {
		g.report.ParagraphsInserted += ExpandBulletsWithGlyph(p, g.tokens.Skills, rec.Skills, g.glyph)
		g.report.ParagraphsInserted += ExpandBulletsWithGlyph(p, g.tokens.Languages, rec.Languages, g.glyph)
	}

	experience := rec.WorkExperience
	expansion, err := ExpandFirstRecordTable(doc, g.tokens.RecordMarkers(), len(experience), func(row *document.Row, i int) {
		g.fillExperience(row, experience[i])
	})
	switch {
	case errors.Is(err, ErrTemplateRowNotFound):
		// no work experience table in this template
	case err != nil:
		return g.report, fmt.Errorf("failed to expand work experience rows: %w", err)
	default:
		g.report.RecordTableFound = true
		g.report.RecordTableIndex = expansion.TableIndex
		g.report.RecordRows = expansion.Rows
		g.report.SkippedTables = expansion.SkippedTables
	}

	return g.report, nil
}

// fillExperience substitutes one work experience entry into a cloned row.
func (g *generator) fillExperience(row *document.Row, exp types.WorkExperience) {
	for _, p := range row.Paragraphs() {
		g.report.ScalarReplacements += SubstituteScalar(p, g.tokens.CompanyName, exp.CompanyName)
		g.report.ScalarReplacements += SubstituteScalar(p, g.tokens.Duration, exp.Duration)
		g.report.ScalarReplacements += SubstituteScalar(p, g.tokens.JobTitle, exp.JobTitle)
		g.report.ParagraphsInserted += ExpandBulletsWithGlyph(p, g.tokens.JobDescription, exp.JobDescription, g.glyph)
		g.report.ParagraphsInserted += ExpandBulletsWithGlyph(p, g.tokens.Achievements, exp.Achievements, g.glyph)
	}
}

// paragraphs snapshots the body paragraphs and every paragraph of every
// table cell. Paragraphs inserted later are not part of the snapshot.
func paragraphs(doc *document.Document) []*document.Paragraph {
	paras := doc.Paragraphs()
	for _, t := range doc.Tables() {
		for _, row := range t.Rows() {
			paras = append(paras, row.Paragraphs()...)
		}
	}
	return paras
}

// FormatEducation renders education entries as blocks separated by a blank
// line. Each block lists degree, institution, year and "CGPA: x", skipping
// empty parts.
func FormatEducation(entries []types.Education) string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		var lines []string
		for _, part := range []string{e.Degree, e.Institution, e.Year} {
			if part != "" {
				lines = append(lines, part)
			}
		}
		if e.CGPA != "" {
			lines = append(lines, "CGPA: "+e.CGPA)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// GenerateFile loads the template at templatePath, fills it from rec and
// saves the result to outPath.
func GenerateFile(templatePath, outPath string, rec *types.ResumeRecord, opts ...Option) (*Report, error) {
	doc, err := document.Open(templatePath)
	if err != nil {
		return nil, err
	}
	report, err := Generate(doc, rec, opts...)
	if err != nil {
		return report, err
	}
	if err := doc.Save(outPath); err != nil {
		return report, err
	}
	return report, nil
}

// GenerateBytes fills an in-memory template and returns the resulting package.
func GenerateBytes(template []byte, rec *types.ResumeRecord, opts ...Option) ([]byte, *Report, error) {
	doc, err := document.ReadBytes(template)
	if err != nil {
		return nil, nil, err
	}
	report, err := Generate(doc, rec, opts...)
	if err != nil {
		return nil, report, err
	}
	out, err := doc.Bytes()
	if err != nil {
		return nil, report, err
	}
	return out, report, nil
}
