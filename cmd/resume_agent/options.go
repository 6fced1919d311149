package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/pipeline"
)

// override copies a flag value into dst when the flag was set explicitly
func override[T any](cmd *cobra.Command, name string, dst *T, value T) {
	if cmd.Flags().Changed(name) {
		*dst = value
	}
}

// loadConfigFile loads and validates --config, or returns an empty config
func loadConfigFile(path string, verbose bool) (config.Config, error) {
	if path == "" {
		return config.Config{}, nil
	}
	loaded, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return config.Config{}, err
	}
	if verbose {
		_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", path)
	}
	return *loaded, nil
}

// finalizeConfig applies defaults and environment fallbacks, then validates
// the merged result
func finalizeConfig(cfg config.Config) (config.Config, error) {
	cfg = cfg.MergeWithDefaults(config.DefaultConfig())
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// runOptions builds pipeline options from a resolved configuration
func runOptions(cfg config.Config) pipeline.RunOptions {
	return pipeline.RunOptions{
		InputPath:       cfg.Input,
		RecordPath:      cfg.Record,
		TemplatePath:    cfg.Template,
		OutputPath:      cfg.Output,
		APIKey:          cfg.APIKey,
		DatabaseURL:     cfg.DatabaseURL,
		BulletGlyph:     cfg.BulletGlyph,
		OCRLanguage:     cfg.OCRLanguage,
		MaxAttempts:     cfg.MaxAttempts,
		CanonicalSkills: cfg.CanonicalSkills,
		Verbose:         cfg.Verbose,
	}
}

// requireAPIKey fails early when parsing will be needed but no key is set
func requireAPIKey(cfg config.Config) error {
	if cfg.Input != "" && cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}
	return nil
}

// databaseURL returns the flag value or the DATABASE_URL environment variable
func databaseURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("DATABASE_URL")
}
