// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/templating"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxPreviewLines bounds the extracted text preview
	maxPreviewLines = 12
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, shorten(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, shorten(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// shorten truncates s to max runes, marking the cut with "..."
func shorten(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// writeList writes up to limit items under a heading
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintResumeRecord outputs a human-readable summary of a parsed resume record.
func (p *Printer) PrintResumeRecord(record *types.ResumeRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", record.Name))
	sb.WriteString(fmt.Sprintf("Contact:  %s\n", record.ContactNumber))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", record.Email))
	sb.WriteString("\n")

	writeList(&sb, "Skills", record.Skills, maxItemsToShow)
	writeList(&sb, "Languages", record.Languages, 3)

	if len(record.Education) > 0 {
		sb.WriteString(fmt.Sprintf("Education: %d entr%s\n", len(record.Education), plural(len(record.Education), "y", "ies")))
		for _, e := range record.Education {
			line := strings.Join(nonEmpty(e.Degree, e.Institution, e.Year), ", ")
			sb.WriteString(fmt.Sprintf("  • %s\n", line))
		}
	}

	if len(record.WorkExperience) > 0 {
		sb.WriteString(fmt.Sprintf("Work experience: %d role%s\n", len(record.WorkExperience), plural(len(record.WorkExperience), "", "s")))
		count := min(len(record.WorkExperience), maxItemsToShow)
		for i := 0; i < count; i++ {
			w := record.WorkExperience[i]
			sb.WriteString(fmt.Sprintf("  • %s\n", strings.Join(nonEmpty(w.JobTitle, w.CompanyName, w.Duration), " | ")))
			sb.WriteString(fmt.Sprintf("    %d description bullet%s, %d achievement%s\n",
				len(w.JobDescription), plural(len(w.JobDescription), "", "s"),
				len(w.Achievements), plural(len(w.Achievements), "", "s")))
		}
		if len(record.WorkExperience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.WorkExperience)-maxItemsToShow))
		}
	}

	p.printBox("PARSED RESUME RECORD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGenerationReport outputs what the template engine changed.
func (p *Printer) PrintGenerationReport(report *templating.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Placeholders replaced:  %d\n", report.ScalarReplacements))
	sb.WriteString(fmt.Sprintf("Paragraphs inserted:    %d\n", report.ParagraphsInserted))
	if report.RecordTableFound {
		sb.WriteString(fmt.Sprintf("Experience table:       #%d (%d row%s)\n",
			report.RecordTableIndex+1, report.RecordRows, plural(report.RecordRows, "", "s")))
	} else {
		sb.WriteString("Experience table:       not found\n")
	}
	if len(report.SkippedTables) > 0 {
		skipped := make([]string, len(report.SkippedTables))
		for i, idx := range report.SkippedTables {
			skipped[i] = fmt.Sprintf("#%d", idx+1)
		}
		sb.WriteString(fmt.Sprintf("Tables left untouched:  %s\n", strings.Join(skipped, ", ")))
	}

	p.printBox("GENERATION REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExtractedText outputs extraction metadata and the first lines of text.
func (p *Printer) PrintExtractedText(text string, metadata *ingestion.Metadata) {
	var sb strings.Builder
	if metadata != nil {
		sb.WriteString(fmt.Sprintf("File:        %s\n", metadata.FileName))
		sb.WriteString(fmt.Sprintf("Format:      %s\n", metadata.Format))
		sb.WriteString(fmt.Sprintf("Characters:  %d\n", metadata.Characters))
		if len(metadata.Hash) >= 12 {
			sb.WriteString(fmt.Sprintf("Hash:        %s\n", metadata.Hash[:12]))
		}
		sb.WriteString("\n")
	}

	lines := strings.Split(text, "\n")
	count := min(len(lines), maxPreviewLines)
	for i := 0; i < count; i++ {
		sb.WriteString(lines[i] + "\n")
	}
	if len(lines) > maxPreviewLines {
		sb.WriteString(fmt.Sprintf("... and %d more lines\n", len(lines)-maxPreviewLines))
	}

	p.printBox("EXTRACTED TEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs a completion summary with output paths.
func (p *Printer) PrintSummary(outputPath string, runID string, artifacts []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Output:  %s\n", outputPath))
	if runID != "" {
		sb.WriteString(fmt.Sprintf("Run ID:  %s\n", runID))
	}
	writeList(&sb, "Artifacts saved", artifacts, len(artifacts))

	p.printBox("RESUME GENERATED", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidationResult outputs the outcome of validating a resume record.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidationResult(path string, err error) {
	if err == nil {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, shorten("✅ VALID: "+path, boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	validationErr, ok := err.(*schemas.ValidationError)
	if !ok {
		sb.WriteString(err.Error())
		p.printBox("⚠ INVALID: "+path, strings.TrimSpace(sb.String()))
		return
	}

	sb.WriteString(fmt.Sprintf("Found %d problem%s:\n\n", len(validationErr.Errors), plural(len(validationErr.Errors), "", "s")))
	for i, fe := range validationErr.Errors {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", fe.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", fe.Message))
		if i < len(validationErr.Errors)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("⚠ INVALID: "+path, strings.TrimSuffix(sb.String(), "\n"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
