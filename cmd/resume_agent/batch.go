package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] FILE...",
	Short: "Generate resumes for many files concurrently",
	Long: `Run the pipeline for every FILE. Resume record files (.json) skip extraction and parsing;
every other file is extracted and parsed. Each output is written to --out-dir, named after its source.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatchCmd,
}

var (
	batchConfigPath      string
	batchOutDir          string
	batchTemplate        string
	batchGlyph           string
	batchAPIKey          string
	batchDatabaseURL     string
	batchOCRLanguage     string
	batchConcurrency     int
	batchMaxAttempts     int
	batchCanonicalSkills bool
	batchVerbose         bool
)

func init() {
	batchCmd.Flags().StringVar(&batchConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	batchCmd.Flags().StringVarP(&batchOutDir, "out-dir", "o", "out", "Directory for the generated .docx files")
	batchCmd.Flags().StringVarP(&batchTemplate, "template", "t", "", "Path to .docx template")
	batchCmd.Flags().StringVar(&batchGlyph, "glyph", "", "Prefix for list items (default \"• \")")
	batchCmd.Flags().StringVar(&batchOCRLanguage, "ocr-lang", "", "Tesseract language for image input, e.g. eng+fra")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0, "Resumes processed in parallel (default 4)")
	batchCmd.Flags().IntVar(&batchMaxAttempts, "max-attempts", 0, "LLM calls allowed per resume when responses are unusable")
	batchCmd.Flags().BoolVar(&batchCanonicalSkills, "canonical-skills", false, "Rewrite skill names to canonical spellings")
	batchCmd.Flags().BoolVarP(&batchVerbose, "verbose", "v", false, "Print detailed debug information")
	batchCmd.Flags().StringVar(&batchAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	batchCmd.Flags().StringVar(&batchDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(batchCmd)
}

// isRecordFile reports whether a batch argument is a resume record
func isRecordFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// batchItems builds one pipeline run per source file
func batchItems(sources []string, cfg config.Config, outDir string) []pipeline.RunOptions {
	outputs := pipeline.AssignOutputPaths(sources, outDir)
	items := make([]pipeline.RunOptions, len(sources))
	for i, src := range sources {
		itemCfg := cfg
		itemCfg.Input, itemCfg.Record = "", ""
		if isRecordFile(src) {
			itemCfg.Record = src
		} else {
			itemCfg.Input = src
		}
		itemCfg.Output = outputs[i]
		items[i] = runOptions(itemCfg)
	}
	return items
}

func runBatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFile(batchConfigPath, batchVerbose)
	if err != nil {
		return err
	}
	// Per-file sources come from the arguments
	cfg.Input, cfg.Record, cfg.Output = "", "", ""

	override(cmd, "template", &cfg.Template, batchTemplate)
	override(cmd, "glyph", &cfg.BulletGlyph, batchGlyph)
	override(cmd, "ocr-lang", &cfg.OCRLanguage, batchOCRLanguage)
	override(cmd, "concurrency", &cfg.Concurrency, batchConcurrency)
	override(cmd, "max-attempts", &cfg.MaxAttempts, batchMaxAttempts)
	override(cmd, "canonical-skills", &cfg.CanonicalSkills, batchCanonicalSkills)
	override(cmd, "verbose", &cfg.Verbose, batchVerbose)
	override(cmd, "api-key", &cfg.APIKey, batchAPIKey)
	override(cmd, "db-url", &cfg.DatabaseURL, batchDatabaseURL)

	cfg, err = finalizeConfig(cfg)
	if err != nil {
		return err
	}
	// finalizeConfig fills the single-run output default
	cfg.Output = ""

	for _, src := range args {
		if !isRecordFile(src) && cfg.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required to parse %s", src)
		}
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Processing %d resume(s) with concurrency %d...\n", len(args), cfg.Concurrency)

	results, err := pipeline.RunBatch(context.Background(), batchItems(args, cfg, batchOutDir), cfg.Concurrency, out)

	_, _ = fmt.Fprintf(out, "\nBatch summary:\n")
	for _, r := range results {
		if r.Err != nil {
			_, _ = fmt.Fprintf(out, "  ❌ %s: %v\n", r.Source, r.Err)
			continue
		}
		_, _ = fmt.Fprintf(out, "  ✅ %s -> %s\n", r.Source, r.Result.OutputPath)
	}

	var batchErr *pipeline.BatchError
	if errors.As(err, &batchErr) {
		return batchErr
	}
	return err
}
