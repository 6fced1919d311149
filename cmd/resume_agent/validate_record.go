package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/pipeline/steps"
	"github.com/jonathan/resume-builder/internal/schemas"
)

var validateRecordCmd = &cobra.Command{
	Use:   "validate-record",
	Short: "Validate a resume record JSON against the resume record schema",
	Long: `Validate a resume record against schemas/resume_record.schema.json.

File mode checks --in as written, against the embedded schema or the schema file
given with --schema. Database mode checks the record stored for --run-id
and marks the run's validate_record step, which generate --from-run requires.`,
	RunE: runValidateRecord,
}

var (
	validateInput       string
	validateSchema      string
	validateRunID       string
	validateDatabaseURL string
)

func init() {
	validateRecordCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to resume record JSON")
	validateRecordCmd.Flags().StringVar(&validateSchema, "schema", "", "Schema file to validate --in against (default: embedded resume record schema)")
	validateRecordCmd.Flags().StringVar(&validateRunID, "run-id", "", "Run ID whose stored record should be validated (instead of --in)")
	validateRecordCmd.Flags().StringVar(&validateDatabaseURL, "db-url", "", "Database URL (used with --run-id, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(validateRecordCmd)
}

func runValidateRecord(cmd *cobra.Command, _ []string) error {
	if (validateInput == "") == (validateRunID == "") {
		return fmt.Errorf("provide exactly one of --in or --run-id")
	}
	printer := observability.NewPrinter(cmd.OutOrStdout())

	if validateInput != "" {
		err := validateRecordFile(validateInput, validateSchema)
		printer.PrintValidationResult(validateInput, err)
		if err != nil {
			return fmt.Errorf("validation failed for %s", validateInput)
		}
		return nil
	}

	runID, err := uuid.Parse(validateRunID)
	if err != nil {
		return fmt.Errorf("invalid run-id: %w", err)
	}
	dbURL := databaseURL(validateDatabaseURL)
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL required when using --run-id")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := steps.ValidateDependencies(ctx, database, runID, steps.ValidateRecord); err != nil {
		return err
	}
	content, err := database.GetArtifact(ctx, runID, db.StepResumeRecord)
	if err != nil {
		return err
	}
	if content == nil {
		return fmt.Errorf("no resume record found for run %s", runID)
	}

	if _, err := database.StartRunStep(ctx, runID, steps.ValidateRecord, db.CategoryParsing); err != nil {
		return err
	}
	validationErr := schemas.ValidateResumeRecord(content)
	status := db.StepStatusCompleted
	if validationErr != nil {
		status = db.StepStatusFailed
	}
	if err := database.FinishRunStep(ctx, runID, steps.ValidateRecord, status, validationErr); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	label := "run " + runID.String()
	printer.PrintValidationResult(label, validationErr)
	if validationErr != nil {
		return fmt.Errorf("validation failed for %s", label)
	}
	return nil
}

func validateRecordFile(path, schemaPath string) error {
	if schemaPath == "" {
		return schemas.ValidateResumeRecordFile(path)
	}
	resolved := schemas.ResolveSchemaPath(schemaPath)
	if resolved == "" {
		return fmt.Errorf("schema file not found: %s", schemaPath)
	}
	return schemas.ValidateJSON(resolved, path)
}
