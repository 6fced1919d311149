package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/parsing"
	"github.com/jonathan/resume-builder/internal/pipeline/steps"
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume",
	Short: "Parse extracted resume text into a resume record JSON",
	Long: `Parse extracted resume text into a structured resume record using the LLM.

File mode reads --in (the output of extract-text) and writes --out.
Database mode reads the extracted text stored for --run-id and stores the record on the same run.`,
	RunE: runParseResume,
}

var (
	parseInputFile       string
	parseOutputFile      string
	parseRunID           string
	parseDatabaseURL     string
	parseAPIKey          string
	parseMaxAttempts     int
	parseCanonicalSkills bool
	parseVerbose         bool
)

func init() {
	parseResumeCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to extracted text file")
	parseResumeCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to output resume record JSON")
	parseResumeCmd.Flags().StringVar(&parseRunID, "run-id", "", "Run ID to load extracted text from the database (instead of --in/--out)")
	parseResumeCmd.Flags().StringVar(&parseDatabaseURL, "db-url", "", "Database URL (used with --run-id, defaults to DATABASE_URL env var)")
	parseResumeCmd.Flags().StringVar(&parseAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	parseResumeCmd.Flags().IntVar(&parseMaxAttempts, "max-attempts", parsing.DefaultMaxAttempts, "LLM calls allowed when responses are unusable")
	parseResumeCmd.Flags().BoolVar(&parseCanonicalSkills, "canonical-skills", false, "Rewrite skill names to canonical spellings")
	parseResumeCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(parseResumeCmd)
}

func runParseResume(cmd *cobra.Command, _ []string) error {
	// Determine mode: database or file
	useDatabase := parseRunID != ""
	useFiles := parseInputFile != "" || parseOutputFile != ""

	if useDatabase && useFiles {
		return fmt.Errorf("cannot use --run-id with --in/--out flags")
	}
	if !useDatabase && !useFiles {
		return fmt.Errorf("must provide either --run-id or --in/--out flags")
	}
	if useFiles && (parseInputFile == "" || parseOutputFile == "") {
		return fmt.Errorf("--in and --out are both required in file mode")
	}

	// Get API key
	apiKey := parseAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	ctx := context.Background()
	extractor := &parsing.LLMExtractor{
		APIKey: apiKey,
		Options: parsing.Options{
			MaxAttempts:     parseMaxAttempts,
			CanonicalSkills: parseCanonicalSkills,
			Verbose:         parseVerbose,
		},
	}
	out := cmd.OutOrStdout()

	if useFiles {
		inputContent, err := os.ReadFile(parseInputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}

		record, err := extractor.ExtractRecord(ctx, string(inputContent))
		if err != nil {
			return fmt.Errorf("failed to parse resume: %w", err)
		}
		if parseVerbose {
			observability.NewPrinter(out).PrintResumeRecord(record)
		}

		jsonBytes, err := record.ToJSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(parseOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		_, _ = fmt.Fprintf(out, "Successfully parsed resume record for %s\n", record.Name)
		_, _ = fmt.Fprintf(out, "Output: %s\n", parseOutputFile)
		return nil
	}

	// Database mode
	runID, err := uuid.Parse(parseRunID)
	if err != nil {
		return fmt.Errorf("invalid run-id: %w", err)
	}

	dbURL := databaseURL(parseDatabaseURL)
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL required when using --run-id")
	}

	database, err := db.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := steps.ValidateDependencies(ctx, database, runID, steps.ParseResume); err != nil {
		return err
	}

	text, err := database.GetTextArtifact(ctx, runID, db.StepExtractedText)
	if err != nil {
		return fmt.Errorf("failed to get extracted text: %w", err)
	}
	if text == "" {
		return fmt.Errorf("no extracted text found for run %s", runID)
	}

	if _, err := database.StartRunStep(ctx, runID, steps.ParseResume, db.CategoryParsing); err != nil {
		return err
	}
	record, err := extractor.ExtractRecord(ctx, text)
	status := db.StepStatusCompleted
	if err != nil {
		status = db.StepStatusFailed
	}
	if finishErr := database.FinishRunStep(ctx, runID, steps.ParseResume, status, err); finishErr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %v\n", finishErr)
	}
	if err != nil {
		return fmt.Errorf("failed to parse resume: %w", err)
	}

	if err := database.SaveArtifact(ctx, runID, db.StepResumeRecord, db.CategoryParsing, record); err != nil {
		return fmt.Errorf("failed to save resume record to database: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Successfully parsed resume record and saved to database (run: %s)\n", runID)
	return nil
}
