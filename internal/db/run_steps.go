package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const runStepColumns = `id, run_id, step, category, status, started_at, completed_at,
	duration_ms, error_message, created_at, updated_at`

func scanRunStep(row pgx.Row) (*RunStep, error) {
	var step RunStep
	err := row.Scan(&step.ID, &step.RunID, &step.Step, &step.Category, &step.Status,
		&step.StartedAt, &step.CompletedAt, &step.DurationMs, &step.ErrorMessage,
		&step.CreatedAt, &step.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &step, nil
}

// StartRunStep records that a step of a run has begun. Restarting a step
// resets its timing and error.
func (db *DB) StartRunStep(ctx context.Context, runID uuid.UUID, stepName, category string) (*RunStep, error) {
	step, err := scanRunStep(db.pool.QueryRow(ctx,
		`INSERT INTO run_steps (run_id, step, category, status, started_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (run_id, step) DO UPDATE
		 SET category = $3, status = $4, started_at = NOW(), completed_at = NULL,
		     duration_ms = NULL, error_message = NULL, updated_at = NOW()
		 RETURNING `+runStepColumns,
		runID, stepName, category, StepStatusInProgress,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to start run step %s: %w", stepName, err)
	}
	return step, nil
}

// FinishRunStep records the terminal status of a step. stepErr, when non-nil,
// is stored as the step's error message.
func (db *DB) FinishRunStep(ctx context.Context, runID uuid.UUID, stepName, status string, stepErr error) error {
	current, err := db.GetRunStep(ctx, runID, stepName)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("step not found: %s", stepName)
	}

	now := time.Now()
	var durationMs *int
	if current.StartedAt != nil {
		dur := int(now.Sub(*current.StartedAt).Milliseconds())
		durationMs = &dur
	}

	var errorMsg *string
	if stepErr != nil {
		msg := stepErr.Error()
		errorMsg = &msg
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE run_steps
		 SET status = $1, completed_at = $2, duration_ms = $3, error_message = $4, updated_at = NOW()
		 WHERE run_id = $5 AND step = $6`,
		status, now, durationMs, errorMsg, runID, stepName,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run step %s: %w", stepName, err)
	}
	return nil
}

// GetRunStep retrieves a run step by run_id and step name; nil when absent
func (db *DB) GetRunStep(ctx context.Context, runID uuid.UUID, stepName string) (*RunStep, error) {
	step, err := scanRunStep(db.pool.QueryRow(ctx,
		`SELECT `+runStepColumns+` FROM run_steps WHERE run_id = $1 AND step = $2`,
		runID, stepName,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run step: %w", err)
	}
	return step, nil
}

// ListRunSteps retrieves all steps of a run in the order they were created
func (db *DB) ListRunSteps(ctx context.Context, runID uuid.UUID) ([]RunStep, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+runStepColumns+` FROM run_steps WHERE run_id = $1 ORDER BY created_at ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list run steps: %w", err)
	}
	defer rows.Close()

	var steps []RunStep
	for rows.Next() {
		step, err := scanRunStep(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run step: %w", err)
		}
		steps = append(steps, *step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list run steps: %w", err)
	}
	return steps, nil
}
