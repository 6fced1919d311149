// Package parsing turns extracted resume text into a structured ResumeRecord
// using LLM extraction.
package parsing

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	promptFile = "resume.json"

	// DefaultMaxAttempts allows one retry after an unusable response
	DefaultMaxAttempts = 2

	// maxEchoedResponse bounds how much of a bad response is quoted back
	maxEchoedResponse = 4000
)

// RecordExtractor turns resume text into a structured record
type RecordExtractor interface {
	ExtractRecord(ctx context.Context, text string) (*types.ResumeRecord, error)
}

// Options configures ExtractResumeRecord. The zero value uses the default
// Gemini configuration.
type Options struct {
	// Client overrides the LLM client. It is not closed by this package.
	Client llm.Client
	// Config is used to build a client when Client is nil. A config without
	// a response schema gets RecordResponseSchema.
	Config *llm.Config
	// Tier selects the model; defaults to llm.TierStandard
	Tier llm.ModelTier
	// MaxAttempts bounds LLM calls when responses cannot be decoded
	MaxAttempts int
	// CanonicalSkills rewrites skill names to canonical spellings
	CanonicalSkills bool
	Verbose         bool
}

// LLMExtractor is the RecordExtractor backed by ExtractResumeRecord
type LLMExtractor struct {
	APIKey  string
	Options Options
}

// ExtractRecord implements RecordExtractor
func (e *LLMExtractor) ExtractRecord(ctx context.Context, text string) (*types.ResumeRecord, error) {
	opts := e.Options
	return ExtractResumeRecord(ctx, text, e.APIKey, &opts)
}

// ExtractResumeRecord asks the LLM for a resume record and decodes,
// validates and normalizes it. apiKey is only used when opts carries no
// Client.
func ExtractResumeRecord(ctx context.Context, text string, apiKey string, opts *Options) (*types.ResumeRecord, error) {
	if opts == nil {
		opts = &Options{}
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	client := opts.Client
	if client == nil {
		if apiKey == "" {
			return nil, &APICallError{Message: "API key is required"}
		}
		config := opts.Config
		if config == nil {
			config = llm.DefaultConfig()
		}
		if config.ResponseSchema == nil {
			config = config.WithResponseSchema(RecordResponseSchema())
		}
		var err error
		client, err = llm.NewClient(ctx, config, apiKey)
		if err != nil {
			return nil, &APICallError{
				Message: "failed to create LLM client",
				Cause:   err,
			}
		}
		defer func() { _ = client.Close() }()
	}

	tier := opts.Tier
	if tier == "" {
		tier = llm.TierStandard
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	basePrompt, err := buildExtractionPrompt(text)
	if err != nil {
		return nil, err
	}

	prompt := basePrompt
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if opts.Verbose {
			log.Printf("[VERBOSE] Requesting resume record from %s (attempt %d/%d)", client.GetModel(tier), attempt, attempts)
		}

		responseText, err := client.GenerateJSON(ctx, prompt, tier)
		if err != nil {
			return nil, &APICallError{
				Message: "failed to generate content from LLM",
				Cause:   err,
			}
		}

		record, err := decodeRecord(responseText)
		if err == nil {
			postProcessRecord(record, opts)
			return record, nil
		}
		if !retryable(err) {
			return nil, err
		}

		lastErr = err
		if attempt < attempts {
			log.Printf("Warning: unusable LLM response (%v), retrying", err)
			prompt, err = buildRetryPrompt(basePrompt, responseText, lastErr)
			if err != nil {
				return nil, err
			}
		}
	}

	return nil, lastErr
}

func buildExtractionPrompt(resumeText string) (string, error) {
	prompt, err := prompts.Render(promptFile, "extract-resume-record", map[string]string{
		"ResumeText": resumeText,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build extraction prompt: %w", err)
	}
	return prompt, nil
}

func buildRetryPrompt(basePrompt, previousResponse string, problem error) (string, error) {
	prompt, err := prompts.Render(promptFile, "retry-resume-record", map[string]string{
		"Problem":          problem.Error(),
		"Instructions":     basePrompt,
		"PreviousResponse": truncate(previousResponse, maxEchoedResponse),
	})
	if err != nil {
		return "", fmt.Errorf("failed to build retry prompt: %w", err)
	}
	return prompt, nil
}

// decodeRecord locates the JSON object in an LLM response, decodes it
// tolerantly, normalizes it and checks the result against the resume record
// schema.
func decodeRecord(responseText string) (*types.ResumeRecord, error) {
	jsonText := llm.FindJSONObject(responseText)
	if jsonText == "" {
		return nil, &NoStructureError{Response: truncate(responseText, 200)}
	}

	record, err := types.ParseResumeRecord([]byte(jsonText))
	if err != nil {
		return nil, &ParseError{
			Message: "failed to parse JSON response",
			Cause:   err,
		}
	}

	record.Normalize()
	data, err := record.ToJSON()
	if err != nil {
		return nil, &ParseError{Message: "failed to re-encode record", Cause: err}
	}
	if err := schemas.ValidateResumeRecord(data); err != nil {
		validationErr := &ValidationError{Message: "record does not match schema", Cause: err}
		if schemaErr, ok := err.(*schemas.ValidationError); ok && len(schemaErr.Errors) > 0 {
			validationErr.Field = schemaErr.Errors[0].Field
		}
		return nil, validationErr
	}

	return record, nil
}

func postProcessRecord(record *types.ResumeRecord, opts *Options) {
	if opts.CanonicalSkills {
		record.Skills = NormalizeSkills(record.Skills)
	}
}

// truncate shortens s to at most max bytes without splitting a UTF-8
// sequence, so the result can be echoed back in a prompt.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}
