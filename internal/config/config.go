// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Input    string `json:"input,omitempty" validate:"omitempty,file,excluded_with=Record"` // Resume source file (docx, pdf, image, html, txt)
	Record   string `json:"record,omitempty" validate:"omitempty,file"`                     // Resume record JSON, skips extraction and parsing
	Template string `json:"template,omitempty" validate:"omitempty,file,endswith=.docx"`    // Path to the .docx template
	Output   string `json:"output,omitempty" validate:"omitempty,endswith=.docx"`           // Path of the generated .docx

	// Rendering
	BulletGlyph string `json:"bullet_glyph,omitempty" validate:"max=8"` // Prefix for expanded list items

	// Behavior
	APIKey          string `json:"api_key,omitempty"`                                  // Gemini API key
	DatabaseURL     string `json:"database_url,omitempty"`                             // PostgreSQL connection URL
	OCRLanguage     string `json:"ocr_language,omitempty" validate:"omitempty,max=32"` // Tesseract languages, e.g. "eng+fra"
	Concurrency     int    `json:"concurrency,omitempty" validate:"min=0,max=32"`      // Parallel pipelines in batch mode
	MaxAttempts     int    `json:"max_attempts,omitempty" validate:"min=0,max=5"`      // LLM calls per resume
	CanonicalSkills bool   `json:"canonical_skills,omitempty"`                         // Rewrite skill names to canonical spellings
	Verbose         bool   `json:"verbose,omitempty"`                                  // Print detailed debug information
}

// DefaultConfig returns the defaults applied under flags and config files
func DefaultConfig() Config {
	return Config{
		Template:    "templates/resume_template.docx",
		Output:      "out/resume.docx",
		BulletGlyph: "• ",
		OCRLanguage: "eng",
		Concurrency: 4,
		MaxAttempts: 2,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks that the configuration has valid values.
// Required fields are not checked here; the CLI does that after merging
// flags, the config file and defaults.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config error: %w", err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describeFieldError(fe))
	}
	return fmt.Errorf("config error: %s", strings.Join(messages, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "file":
		return fmt.Sprintf("'%s' file not found: %v", field, fe.Value())
	case "excluded_with":
		return fmt.Sprintf("'%s' and '%s' are mutually exclusive", field, strings.ToLower(fe.Param()))
	case "endswith":
		return fmt.Sprintf("'%s' must end with %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("'%s' must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("'%s' must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("'%s' must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("'%s' failed %s validation", field, fe.Tag())
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Input == "" && result.Record == "" {
		result.Input = defaults.Input
		result.Record = defaults.Record
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.BulletGlyph == "" {
		result.BulletGlyph = defaults.BulletGlyph
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.OCRLanguage == "" {
		result.OCRLanguage = defaults.OCRLanguage
	}

	// Int fields: use default if zero
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv fills the API key and database URL from GEMINI_API_KEY and
// DATABASE_URL when they are not set.
func (c *Config) ApplyEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
}
