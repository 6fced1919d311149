package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/db"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect pipeline runs stored in the database",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent pipeline runs",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Show the steps and artifacts of a pipeline run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var (
	runsDatabaseURL string
	runsLimit       int
)

func init() {
	runsCmd.PersistentFlags().StringVar(&runsDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Maximum number of runs to list")

	runsCmd.AddCommand(runsListCmd, runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func connectRunsDB(ctx context.Context) (*db.DB, error) {
	dbURL := databaseURL(runsDatabaseURL)
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	database, err := db.Connect(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	database, err := connectRunsDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(ctx, runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No runs found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RUN ID\tSTATUS\tCREATED\tSOURCE")
	for _, r := range runs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Status, r.CreatedAt.Format(time.RFC3339), r.SourceFile)
	}
	return w.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run ID: %w", err)
	}

	ctx := context.Background()
	database, err := connectRunsDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	run, err := database.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", runID)
	}

	runSteps, err := database.ListRunSteps(ctx, runID)
	if err != nil {
		return err
	}
	artifacts, err := database.ListArtifacts(ctx, runID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Run:      %s\n", run.ID)
	_, _ = fmt.Fprintf(out, "Status:   %s\n", run.Status)
	_, _ = fmt.Fprintf(out, "Source:   %s\n", run.SourceFile)
	_, _ = fmt.Fprintf(out, "Template: %s\n", run.TemplatePath)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "\nSTEP\tSTATUS\tDURATION\tERROR")
	for _, s := range runSteps {
		duration := "-"
		if s.DurationMs != nil {
			duration = fmt.Sprintf("%dms", *s.DurationMs)
		}
		errMsg := ""
		if s.ErrorMessage != nil {
			errMsg = *s.ErrorMessage
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Step, s.Status, duration, errMsg)
	}
	_, _ = fmt.Fprintln(w, "\nARTIFACT\tCATEGORY\tKIND")
	for _, a := range artifacts {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", a.Step, a.Category, artifactKind(a))
	}
	return w.Flush()
}

func artifactKind(a db.ArtifactSummary) string {
	switch {
	case a.HasJSON:
		return "json"
	case a.HasText:
		return "text"
	case a.HasBinary:
		return "binary"
	default:
		return "empty"
	}
}
