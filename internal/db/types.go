package db

import (
	"time"

	"github.com/google/uuid"
)

// Run status constants
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Artifact step constants for known artifact types
const (
	StepExtractedText    = "extracted_text"
	StepExtractionMeta   = "extraction_metadata"
	StepResumeRecord     = "resume_record"
	StepGenerationReport = "generation_report"
	StepResumeDocx       = "resume_docx"
)

// Artifact category constants
const (
	CategoryIngestion  = "ingestion"
	CategoryParsing    = "parsing"
	CategoryGeneration = "generation"
)

// StepStatus constants
const (
	StepStatusInProgress = "in_progress"
	StepStatusCompleted  = "completed"
	StepStatusFailed     = "failed"
	StepStatusSkipped    = "skipped"
)

// Run represents a pipeline run record
type Run struct {
	ID           uuid.UUID  `json:"id"`
	SourceFile   string     `json:"source_file"`
	TemplatePath string     `json:"template_path"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// Artifact is one stored output of a pipeline step. Exactly one of Content,
// TextContent or BinaryContent is normally set.
type Artifact struct {
	ID            uuid.UUID `json:"id"`
	RunID         uuid.UUID `json:"run_id"`
	Step          string    `json:"step"`
	Category      string    `json:"category"`
	Content       []byte    `json:"content,omitempty"`
	TextContent   string    `json:"text_content,omitempty"`
	BinaryContent []byte    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// ArtifactSummary is a lightweight view of an artifact for listing
type ArtifactSummary struct {
	ID        uuid.UUID `json:"id"`
	Step      string    `json:"step"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	HasJSON   bool      `json:"has_json"`
	HasText   bool      `json:"has_text"`
	HasBinary bool      `json:"has_binary"`
}

// RunStep represents a single step execution for a pipeline run
type RunStep struct {
	ID           uuid.UUID  `json:"id"`
	RunID        uuid.UUID  `json:"run_id"`
	Step         string     `json:"step"`
	Category     string     `json:"category"`
	Status       string     `json:"status"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	DurationMs   *int       `json:"duration_ms,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsTerminal reports whether the step has finished, successfully or not
func (s *RunStep) IsTerminal() bool {
	switch s.Status {
	case StepStatusCompleted, StepStatusFailed, StepStatusSkipped:
		return true
	}
	return false
}
