// Package pipeline provides the high-level orchestration for building a resume
// document from a source file or a stored record.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/parsing"
	"github.com/jonathan/resume-builder/internal/pipeline/steps"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/templating"
	"github.com/jonathan/resume-builder/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline. Exactly one of
// InputPath, RecordPath and Record names the resume source.
type RunOptions struct {
	InputPath  string              // Resume file to extract and parse
	RecordPath string              // Resume record JSON; skips extraction and parsing
	Record     *types.ResumeRecord // Record supplied in memory; skips extraction and parsing

	TemplatePath string
	OutputPath   string

	APIKey          string
	DatabaseURL     string
	BulletGlyph     string
	OCRLanguage     string
	MaxAttempts     int
	CanonicalSkills bool
	Verbose         bool

	// Extractor overrides the LLM-backed record extractor
	Extractor parsing.RecordExtractor
	// TextExtractors overrides text extraction per source format
	TextExtractors map[ingestion.Format]ingestion.Extractor

	// Out receives progress output; defaults to os.Stdout
	Out        io.Writer
	OnProgress ProgressCallback
}

// Result holds the outputs of one pipeline run
type Result struct {
	RunID      uuid.UUID
	OutputPath string
	Record     *types.ResumeRecord
	Metadata   *ingestion.Metadata // nil when the record was supplied
	Report     *templating.Report
}

// validate checks that the options name one source and both document paths
func (o *RunOptions) validate() error {
	sources := 0
	for _, set := range []bool{o.InputPath != "", o.RecordPath != "", o.Record != nil} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		return errors.New("one of input path, record path or record is required")
	case sources > 1:
		return errors.New("input path, record path and record are mutually exclusive")
	case o.TemplatePath == "":
		return errors.New("template path is required")
	case o.OutputPath == "":
		return errors.New("output path is required")
	}
	return nil
}

func (o *RunOptions) sourceName() string {
	switch {
	case o.InputPath != "":
		return o.InputPath
	case o.RecordPath != "":
		return o.RecordPath
	default:
		return "(record)"
	}
}

func (o *RunOptions) output() io.Writer {
	if o.Out != nil {
		return o.Out
	}
	return os.Stdout
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, runID, stepName, message string, content any) {
	if opts.OnProgress == nil {
		return
	}
	def, _ := steps.Lookup(stepName)
	opts.OnProgress(ProgressEvent{
		Step:     stepName,
		Category: def.Category,
		Message:  message,
		RunID:    runID,
		Content:  content,
	})
}

func printStep(out io.Writer, stepName, suffix string) {
	pos, total := steps.Position(stepName)
	def, _ := steps.Lookup(stepName)
	fmt.Fprintf(out, "Step %d/%d: %s%s\n", pos, total, def.Description, suffix)
}

// RunPipeline runs extract, parse, validate and generate for one resume.
// Database persistence is optional: when DatabaseURL is empty or the database
// is unreachable the pipeline still writes the output document.
func RunPipeline(ctx context.Context, opts RunOptions) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	out := opts.output()
	printer := observability.NewPrinter(out)

	track := connectTracker(ctx, opts.DatabaseURL, opts.Verbose, out)
	defer track.close()
	track.beginRun(ctx, opts.sourceName(), opts.TemplatePath)

	result, err := runSteps(ctx, &opts, track, printer, out)
	track.completeRun(ctx, err)
	if err != nil {
		return nil, err
	}

	result.RunID = track.runID
	var artifacts []string
	if track.enabled() {
		artifacts = []string{db.StepResumeRecord, db.StepGenerationReport, db.StepResumeDocx}
		if result.Metadata != nil {
			artifacts = append([]string{db.StepExtractedText, db.StepExtractionMeta}, artifacts...)
		}
	}
	printer.PrintSummary(result.OutputPath, track.runIDString(), artifacts)
	return result, nil
}

func runSteps(ctx context.Context, opts *RunOptions, track *tracker, printer *observability.Printer, out io.Writer) (*Result, error) {
	result := &Result{OutputPath: opts.OutputPath}
	runID := track.runIDString()

	var record *types.ResumeRecord
	switch {
	case opts.Record != nil:
		record = opts.Record
	case opts.RecordPath != "":
		loaded, err := types.LoadResumeRecord(opts.RecordPath)
		if err != nil {
			return nil, fmt.Errorf("loading resume record failed: %w", err)
		}
		record = loaded
	}

	if record != nil {
		printStep(out, steps.ExtractText, " skipped (record supplied)")
		printStep(out, steps.ParseResume, " skipped (record supplied)")
		track.skipStep(ctx, steps.ExtractText)
		track.skipStep(ctx, steps.ParseResume)
	} else {
		// Step 1: extract text
		printStep(out, steps.ExtractText, fmt.Sprintf(" from %s...", opts.InputPath))
		track.startStep(ctx, steps.ExtractText)
		text, metadata, err := ingestion.ExtractText(ctx, opts.InputPath, &ingestion.Options{
			Extractors:  opts.TextExtractors,
			OCRLanguage: opts.OCRLanguage,
			Verbose:     opts.Verbose,
		})
		track.finishStep(ctx, steps.ExtractText, err)
		if err != nil {
			return nil, fmt.Errorf("text extraction failed: %w", err)
		}
		result.Metadata = metadata
		if opts.Verbose {
			printer.PrintExtractedText(text, metadata)
		}
		track.saveText(ctx, db.StepExtractedText, db.CategoryIngestion, text)
		track.saveJSON(ctx, db.StepExtractionMeta, db.CategoryIngestion, metadata)
		emitProgress(opts, runID, steps.ExtractText,
			fmt.Sprintf("Extracted %d characters from %s", metadata.Characters, metadata.FileName), metadata)

		// Step 2: parse the record
		printStep(out, steps.ParseResume, "...")
		track.startStep(ctx, steps.ParseResume)
		record, err = recordExtractor(opts).ExtractRecord(ctx, text)
		track.finishStep(ctx, steps.ParseResume, err)
		if err != nil {
			return nil, fmt.Errorf("resume parsing failed: %w", err)
		}
		emitProgress(opts, runID, steps.ParseResume, fmt.Sprintf("Parsed resume record for %s", record.Name), nil)
	}

	// Step 3: validate
	printStep(out, steps.ValidateRecord, "...")
	track.startStep(ctx, steps.ValidateRecord)
	err := validateRecord(record)
	track.finishStep(ctx, steps.ValidateRecord, err)
	if err != nil {
		return nil, err
	}
	result.Record = record
	if opts.Verbose {
		printer.PrintResumeRecord(record)
	}
	track.saveJSON(ctx, db.StepResumeRecord, db.CategoryParsing, record)
	emitProgress(opts, runID, steps.ValidateRecord, "Resume record is valid", record)

	// Step 4: generate
	printStep(out, steps.GenerateResume, fmt.Sprintf(" from %s...", opts.TemplatePath))
	report, err := generateDocument(ctx, track, record, opts.TemplatePath, opts.OutputPath, opts.BulletGlyph)
	if err != nil {
		return nil, err
	}
	result.Report = report
	if opts.Verbose {
		printer.PrintGenerationReport(report)
	}
	emitProgress(opts, runID, steps.GenerateResume,
		fmt.Sprintf("Wrote %s (%d work experience rows)", opts.OutputPath, report.RecordRows), report)

	return result, nil
}

func recordExtractor(opts *RunOptions) parsing.RecordExtractor {
	if opts.Extractor != nil {
		return opts.Extractor
	}
	return &parsing.LLMExtractor{
		APIKey: opts.APIKey,
		Options: parsing.Options{
			MaxAttempts:     opts.MaxAttempts,
			CanonicalSkills: opts.CanonicalSkills,
			Verbose:         opts.Verbose,
		},
	}
}

// validateRecord normalizes the record in place and checks it against the
// resume record schema
func validateRecord(record *types.ResumeRecord) error {
	record.Normalize()
	data, err := record.ToJSON()
	if err != nil {
		return fmt.Errorf("resume record validation failed: %w", err)
	}
	if err := schemas.ValidateResumeRecord(data); err != nil {
		return fmt.Errorf("resume record validation failed: %w", err)
	}
	return nil
}

// generateDocument loads its own copy of the template, fills it and writes
// the result, creating the output directory if needed.
func generateDocument(ctx context.Context, track *tracker, record *types.ResumeRecord, templatePath, outputPath, glyph string) (*templating.Report, error) {
	track.startStep(ctx, steps.GenerateResume)
	report, data, err := renderDocument(record, templatePath, outputPath, glyph)
	track.finishStep(ctx, steps.GenerateResume, err)
	if err != nil {
		return nil, fmt.Errorf("document generation failed: %w", err)
	}

	track.saveJSON(ctx, db.StepGenerationReport, db.CategoryGeneration, report)
	track.saveBinary(ctx, db.StepResumeDocx, db.CategoryGeneration, data)
	return report, nil
}

func renderDocument(record *types.ResumeRecord, templatePath, outputPath, glyph string) (*templating.Report, []byte, error) {
	doc, err := document.Open(templatePath)
	if err != nil {
		return nil, nil, err
	}

	var opts []templating.Option
	if glyph != "" {
		opts = append(opts, templating.WithBulletGlyph(glyph))
	}
	report, err := templating.Generate(doc, record, opts...)
	if err != nil {
		return nil, nil, err
	}

	data, err := doc.Bytes()
	if err != nil {
		return nil, nil, err
	}
	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, &document.SaveError{Path: outputPath, Message: "failed to create output directory", Cause: err}
		}
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return nil, nil, &document.SaveError{Path: outputPath, Message: "failed to write document", Cause: err}
	}
	return report, data, nil
}
