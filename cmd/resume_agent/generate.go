package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/jonathan/resume-builder/internal/templating"
	"github.com/jonathan/resume-builder/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fill a .docx template from a resume record",
	Long: `Fill a .docx template from a resume record JSON file (--record), or from the record
stored for a pipeline run (--from-run). Placeholders: {NAME} {CONTACT} {EMAIL} {EDUCATION}
{SKILLS} {LANGUAGES}, and per work experience row {COMPANYNAME} {DURATION} {JOBTITLE}
{JOBDESCRIPTION} {ACHIEVEMENTS}.`,
	RunE: runGenerate,
}

var (
	generateRecord      string
	generateFromRun     string
	generateDatabaseURL string
	generateTemplate    string
	generateOutput      string
	generateGlyph       string
	generateVerbose     bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateRecord, "record", "r", "", "Path to resume record JSON")
	generateCmd.Flags().StringVar(&generateFromRun, "from-run", "", "Run ID whose stored record should be rendered (instead of --record)")
	generateCmd.Flags().StringVar(&generateDatabaseURL, "db-url", "", "Database URL (used with --from-run, defaults to DATABASE_URL env var)")
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "Path to .docx template (with --from-run, defaults to the run's template)")
	generateCmd.Flags().StringVarP(&generateOutput, "out", "o", "", "Path of the generated .docx")
	generateCmd.Flags().StringVar(&generateGlyph, "glyph", templating.BulletGlyph, "Prefix for list items")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print detailed debug information")

	if err := generateCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if (generateRecord == "") == (generateFromRun == "") {
		return fmt.Errorf("provide exactly one of --record or --from-run")
	}
	out := cmd.OutOrStdout()

	if generateFromRun != "" {
		runID, err := uuid.Parse(generateFromRun)
		if err != nil {
			return fmt.Errorf("invalid run ID: %w", err)
		}
		dbURL := databaseURL(generateDatabaseURL)
		if dbURL == "" {
			return fmt.Errorf("DATABASE_URL required when using --from-run")
		}
		_, err = pipeline.RegenerateFromRun(context.Background(), pipeline.RegenerateOptions{
			DatabaseURL:  dbURL,
			RunID:        runID,
			TemplatePath: generateTemplate,
			OutputPath:   generateOutput,
			BulletGlyph:  generateGlyph,
			Verbose:      generateVerbose,
			Out:          out,
		})
		return err
	}

	if generateTemplate == "" {
		return fmt.Errorf("--template is required with --record")
	}

	record, err := types.LoadResumeRecord(generateRecord)
	if err != nil {
		return err
	}
	record.Normalize()

	if dir := filepath.Dir(generateOutput); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	report, err := templating.GenerateFile(generateTemplate, generateOutput, record, templating.WithBulletGlyph(generateGlyph))
	if err != nil {
		return fmt.Errorf("failed to generate resume: %w", err)
	}

	printer := observability.NewPrinter(out)
	if generateVerbose {
		printer.PrintGenerationReport(report)
	}
	if !report.RecordTableFound && len(record.WorkExperience) > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: template has no work experience row; %d entries were not rendered\n", len(record.WorkExperience))
	}
	printer.PrintSummary(generateOutput, "", nil)
	return nil
}
