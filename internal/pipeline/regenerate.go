package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/pipeline/steps"
)

// RegenerateOptions configures RegenerateFromRun
type RegenerateOptions struct {
	DatabaseURL  string
	RunID        uuid.UUID
	TemplatePath string // defaults to the run's template
	OutputPath   string
	BulletGlyph  string
	Verbose      bool
	Out          io.Writer
}

// RegenerateFromRun renders the resume record stored for a run into a
// template. The run's generation step must be ready: its record was
// validated. The new report and document replace the run's previous ones.
func RegenerateFromRun(ctx context.Context, opts RegenerateOptions) (*Result, error) {
	if opts.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	database, err := db.Connect(ctx, opts.DatabaseURL)
	if err != nil {
		return nil, err
	}
	track := &tracker{database: database, runID: opts.RunID, verbose: opts.Verbose, out: out}
	defer track.close()

	run, err := database.GetRun(ctx, opts.RunID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("run not found: %s", opts.RunID)
	}

	if err := steps.ValidateDependencies(ctx, database, opts.RunID, steps.GenerateResume); err != nil {
		return nil, fmt.Errorf("run %s cannot be regenerated: %w", opts.RunID, err)
	}

	record, err := database.GetResumeRecordByRunID(ctx, opts.RunID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("run %s has no stored resume record", opts.RunID)
	}

	templatePath := opts.TemplatePath
	if templatePath == "" {
		templatePath = run.TemplatePath
	}

	printStep(out, steps.GenerateResume, fmt.Sprintf(" from %s for run %s...", templatePath, opts.RunID))
	report, err := generateDocument(ctx, track, record, templatePath, opts.OutputPath, opts.BulletGlyph)
	if err != nil {
		return nil, err
	}

	printer := observability.NewPrinter(out)
	if opts.Verbose {
		printer.PrintGenerationReport(report)
	}
	printer.PrintSummary(opts.OutputPath, opts.RunID.String(), []string{db.StepGenerationReport, db.StepResumeDocx})

	return &Result{
		RunID:      opts.RunID,
		OutputPath: opts.OutputPath,
		Record:     record,
		Report:     report,
	}, nil
}
