// Package main provides the resume_agent CLI, which fills .docx resume
// templates from resume files or stored resume records.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "Resume builder: fill .docx resume templates",
	Long: `resume_agent turns an existing resume (docx, pdf, odt, image, html or text) into a
structured resume record with an LLM, then fills a .docx template with it.

The steps can be run one at a time (extract-text, parse-resume, validate-record, generate)
or end-to-end (run, batch). Runs are stored in PostgreSQL when a database URL is configured.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
