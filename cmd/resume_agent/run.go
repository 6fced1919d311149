package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full resume generation pipeline end-to-end",
	Long: `Orchestrates the entire resume generation process: text extraction -> LLM parsing -> record validation -> template generation.

Pass --record instead of --in to skip extraction and parsing.
Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath      string
	runInput           string
	runRecord          string
	runTemplate        string
	runOutput          string
	runGlyph           string
	runAPIKey          string
	runDatabaseURL     string
	runOCRLanguage     string
	runMaxAttempts     int
	runCanonicalSkills bool
	runVerbose         bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runInput, "in", "i", "", "Resume file to convert (docx, pdf, odt, png, jpg, html, txt)")
	runCommand.Flags().StringVarP(&runRecord, "record", "r", "", "Resume record JSON (skips extraction and parsing; mutually exclusive with --in)")
	runCommand.Flags().StringVarP(&runTemplate, "template", "t", "", "Path to .docx template")
	runCommand.Flags().StringVarP(&runOutput, "out", "o", "", "Path of the generated .docx")
	runCommand.Flags().StringVar(&runGlyph, "glyph", "", "Prefix for list items (default \"• \")")
	runCommand.Flags().StringVar(&runOCRLanguage, "ocr-lang", "", "Tesseract language for image input, e.g. eng+fra")
	runCommand.Flags().IntVar(&runMaxAttempts, "max-attempts", 0, "LLM calls allowed per resume when responses are unusable")
	runCommand.Flags().BoolVar(&runCanonicalSkills, "canonical-skills", false, "Rewrite skill names to canonical spellings")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for artifact persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

// resolveRunConfig merges the config file, explicitly set flags and defaults
func resolveRunConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := loadConfigFile(runConfigPath, runVerbose)
	if err != nil {
		return cfg, err
	}

	// Command-line args take priority; only override if the flag was set
	override(cmd, "in", &cfg.Input, runInput)
	override(cmd, "record", &cfg.Record, runRecord)
	override(cmd, "template", &cfg.Template, runTemplate)
	override(cmd, "out", &cfg.Output, runOutput)
	override(cmd, "glyph", &cfg.BulletGlyph, runGlyph)
	override(cmd, "ocr-lang", &cfg.OCRLanguage, runOCRLanguage)
	override(cmd, "max-attempts", &cfg.MaxAttempts, runMaxAttempts)
	override(cmd, "canonical-skills", &cfg.CanonicalSkills, runCanonicalSkills)
	override(cmd, "verbose", &cfg.Verbose, runVerbose)
	override(cmd, "api-key", &cfg.APIKey, runAPIKey)
	override(cmd, "db-url", &cfg.DatabaseURL, runDatabaseURL)

	if cfg.Input == "" && cfg.Record == "" {
		return cfg, fmt.Errorf("either --in or --record must be provided (via flag or config)")
	}
	return finalizeConfig(cfg)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveRunConfig(cmd)
	if err != nil {
		return err
	}
	if err := requireAPIKey(cfg); err != nil {
		return err
	}

	opts := runOptions(cfg)
	opts.Out = cmd.OutOrStdout()
	_, err = pipeline.RunPipeline(context.Background(), opts)
	return err
}
