// Package steps defines the resume pipeline steps, their dependencies and the
// artifacts each one stores.
package steps

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	dbpkg "github.com/jonathan/resume-builder/internal/db"
)

// Step names in execution order
const (
	ExtractText    = "extract_text"
	ParseResume    = "parse_resume"
	ValidateRecord = "validate_record"
	GenerateResume = "generate_resume"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Description  string
	Dependencies []string
	Artifacts    []string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	ExtractText: {
		Name:         ExtractText,
		Category:     dbpkg.CategoryIngestion,
		Description:  "Extracting text",
		Dependencies: []string{},
		Artifacts:    []string{dbpkg.StepExtractedText, dbpkg.StepExtractionMeta},
	},
	ParseResume: {
		Name:         ParseResume,
		Category:     dbpkg.CategoryParsing,
		Description:  "Parsing resume record",
		Dependencies: []string{ExtractText},
		Artifacts:    []string{},
	},
	ValidateRecord: {
		Name:         ValidateRecord,
		Category:     dbpkg.CategoryParsing,
		Description:  "Validating resume record",
		Dependencies: []string{ParseResume},
		Artifacts:    []string{dbpkg.StepResumeRecord},
	},
	GenerateResume: {
		Name:         GenerateResume,
		Category:     dbpkg.CategoryGeneration,
		Description:  "Generating document",
		Dependencies: []string{ValidateRecord},
		Artifacts:    []string{dbpkg.StepGenerationReport, dbpkg.StepResumeDocx},
	},
}

var order = []string{ExtractText, ParseResume, ValidateRecord, GenerateResume}

// Order returns the step names in execution order
func Order() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Position returns the 1-based position of a step and the total step count.
// Unknown steps report position 0.
func Position(stepName string) (int, int) {
	for i, name := range order {
		if name == stepName {
			return i + 1, len(order)
		}
	}
	return 0, len(order)
}

// Lookup returns the definition of a step
func Lookup(stepName string) (StepDefinition, error) {
	def, ok := StepRegistry[stepName]
	if !ok {
		return StepDefinition{}, fmt.Errorf("unknown step: %s", stepName)
	}
	return def, nil
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s has missing dependencies: %v", e.Step, e.MissingDependencies)
}

// Satisfies reports whether a dependency in the given status lets dependent
// steps run. A skipped step counts: its output was supplied directly.
func Satisfies(status string) bool {
	return status == dbpkg.StepStatusCompleted || status == dbpkg.StepStatusSkipped
}

// StepStore is the subset of the database used to check dependencies
type StepStore interface {
	GetRunStep(ctx context.Context, runID uuid.UUID, stepName string) (*dbpkg.RunStep, error)
}

// ValidateDependencies checks that every direct dependency of a step has
// completed or been skipped for the run.
func ValidateDependencies(ctx context.Context, store StepStore, runID uuid.UUID, stepName string) error {
	def, err := Lookup(stepName)
	if err != nil {
		return err
	}

	var missing []string
	for _, dep := range def.Dependencies {
		step, err := store.GetRunStep(ctx, runID, dep)
		if err != nil {
			return fmt.Errorf("failed to check dependency %s: %w", dep, err)
		}
		if step == nil || !Satisfies(step.Status) {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}

	return nil
}
