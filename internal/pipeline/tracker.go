package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/pipeline/steps"
)

// tracker records run progress in the database when one is configured.
// Every failure is logged as a warning and never stops the pipeline.
type tracker struct {
	database *db.DB
	runID    uuid.UUID
	verbose  bool
	out      io.Writer
}

// connectTracker opens the database if databaseURL is set. A failed
// connection leaves persistence disabled.
func connectTracker(ctx context.Context, databaseURL string, verbose bool, out io.Writer) *tracker {
	t := &tracker{verbose: verbose, out: out}
	if databaseURL == "" {
		return t
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to database: %v", err)
		fmt.Fprintf(out, "Continuing without database persistence...\n")
		return t
	}
	t.database = database
	if verbose {
		log.Printf("[VERBOSE] Connected to database")
	}
	return t
}

func (t *tracker) enabled() bool {
	return t.database != nil && t.runID != uuid.Nil
}

func (t *tracker) close() {
	if t.database != nil {
		t.database.Close()
	}
}

func (t *tracker) beginRun(ctx context.Context, sourceFile, templatePath string) {
	if t.database == nil {
		return
	}
	runID, err := t.database.CreateRun(ctx, sourceFile, templatePath)
	if err != nil {
		log.Printf("Warning: Failed to create database run: %v", err)
		return
	}
	t.runID = runID
	if t.verbose {
		log.Printf("[VERBOSE] Created database run: %s", runID)
	}
}

func (t *tracker) completeRun(ctx context.Context, runErr error) {
	if !t.enabled() {
		return
	}
	status := db.RunStatusCompleted
	if runErr != nil {
		status = db.RunStatusFailed
	}
	if err := t.database.CompleteRun(ctx, t.runID, status); err != nil {
		log.Printf("Warning: Failed to complete database run: %v", err)
	}
}

func (t *tracker) startStep(ctx context.Context, stepName string) {
	if !t.enabled() {
		return
	}
	def, err := steps.Lookup(stepName)
	if err != nil {
		log.Printf("Warning: %v", err)
		return
	}
	if _, err := t.database.StartRunStep(ctx, t.runID, stepName, def.Category); err != nil {
		log.Printf("Warning: Failed to record start of %s: %v", stepName, err)
	}
}

func (t *tracker) finishStep(ctx context.Context, stepName string, stepErr error) {
	status := db.StepStatusCompleted
	if stepErr != nil {
		status = db.StepStatusFailed
	}
	t.endStep(ctx, stepName, status, stepErr)
}

func (t *tracker) skipStep(ctx context.Context, stepName string) {
	t.startStep(ctx, stepName)
	t.endStep(ctx, stepName, db.StepStatusSkipped, nil)
}

func (t *tracker) endStep(ctx context.Context, stepName, status string, stepErr error) {
	if !t.enabled() {
		return
	}
	if err := t.database.FinishRunStep(ctx, t.runID, stepName, status, stepErr); err != nil {
		log.Printf("Warning: Failed to record end of %s: %v", stepName, err)
	}
}

func (t *tracker) saveJSON(ctx context.Context, step, category string, content any) {
	if !t.enabled() {
		return
	}
	if err := t.database.SaveArtifact(ctx, t.runID, step, category, content); err != nil {
		log.Printf("Warning: %v", err)
	}
}

func (t *tracker) saveText(ctx context.Context, step, category, text string) {
	if !t.enabled() {
		return
	}
	if err := t.database.SaveTextArtifact(ctx, t.runID, step, category, text); err != nil {
		log.Printf("Warning: %v", err)
	}
}

func (t *tracker) saveBinary(ctx context.Context, step, category string, data []byte) {
	if !t.enabled() {
		return
	}
	if err := t.database.SaveBinaryArtifact(ctx, t.runID, step, category, data); err != nil {
		log.Printf("Warning: %v", err)
	}
}

// runIDString returns the run ID, or "" when nothing is persisted
func (t *tracker) runIDString() string {
	if !t.enabled() {
		return ""
	}
	return t.runID.String()
}
