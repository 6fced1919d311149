package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-builder/internal/types"
)

// SaveArtifact stores a JSON artifact for a pipeline run
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, step, category string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO artifacts (run_id, step, category, content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, content = $4, created_at = NOW()`,
		runID, step, category, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return nil
}

// SaveTextArtifact stores a text artifact such as the extracted resume text
func (db *DB) SaveTextArtifact(ctx context.Context, runID uuid.UUID, step, category, text string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO artifacts (run_id, step, category, text_content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, text_content = $4, created_at = NOW()`,
		runID, step, category, text,
	)
	if err != nil {
		return fmt.Errorf("failed to save text artifact %s: %w", step, err)
	}
	return nil
}

// SaveBinaryArtifact stores a binary artifact such as the generated .docx
func (db *DB) SaveBinaryArtifact(ctx context.Context, runID uuid.UUID, step, category string, data []byte) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO artifacts (run_id, step, category, binary_content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, binary_content = $4, created_at = NOW()`,
		runID, step, category, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save binary artifact %s: %w", step, err)
	}
	return nil
}

// GetArtifact retrieves a JSON artifact by run ID and step; nil when absent
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}

// GetTextArtifact retrieves a text artifact by run ID and step
func (db *DB) GetTextArtifact(ctx context.Context, runID uuid.UUID, step string) (string, error) {
	var text *string
	err := db.pool.QueryRow(ctx,
		`SELECT text_content FROM artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get text artifact %s: %w", step, err)
	}
	if text == nil {
		return "", nil
	}
	return *text, nil
}

// GetBinaryArtifact retrieves a binary artifact by run ID and step
func (db *DB) GetBinaryArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT binary_content FROM artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get binary artifact %s: %w", step, err)
	}
	return data, nil
}

// ListArtifacts summarizes every artifact stored for a run, oldest first
func (db *DB) ListArtifacts(ctx context.Context, runID uuid.UUID) ([]ArtifactSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, step, COALESCE(category, ''), created_at,
		        content IS NOT NULL, text_content IS NOT NULL, binary_content IS NOT NULL
		 FROM artifacts WHERE run_id = $1
		 ORDER BY created_at ASC, step ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []ArtifactSummary
	for rows.Next() {
		var a ArtifactSummary
		if err := rows.Scan(&a.ID, &a.Step, &a.Category, &a.CreatedAt, &a.HasJSON, &a.HasText, &a.HasBinary); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return artifacts, nil
}

// GetResumeRecordByRunID loads the parsed resume record stored for a run
func (db *DB) GetResumeRecordByRunID(ctx context.Context, runID uuid.UUID) (*types.ResumeRecord, error) {
	content, err := db.GetArtifact(ctx, runID, StepResumeRecord)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}
	return decodeResumeRecord(content)
}

func decodeResumeRecord(content []byte) (*types.ResumeRecord, error) {
	record, err := types.ParseResumeRecord(content)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume record: %w", err)
	}
	return record, nil
}

// LoadArtifact retrieves the full artifact row for a run step; nil when absent
func (db *DB) LoadArtifact(ctx context.Context, runID uuid.UUID, step string) (*Artifact, error) {
	var a Artifact
	err := db.pool.QueryRow(ctx,
		`SELECT id, run_id, step, COALESCE(category, ''), content,
		        COALESCE(text_content, ''), binary_content, created_at
		 FROM artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&a.ID, &a.RunID, &a.Step, &a.Category, &a.Content, &a.TextContent, &a.BinaryContent, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load artifact %s: %w", step, err)
	}
	return &a, nil
}
