package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/observability"
)

var extractTextCmd = &cobra.Command{
	Use:   "extract-text",
	Short: "Extract plain text from a resume file",
	Long: `Extract and clean the text of a resume file. Supported formats: ` + supportedFormats() + `.

Without --out the text is written to stdout. With --out, resume.extracted.txt and resume.meta.json are written to that directory.`,
	RunE: runExtractText,
}

var (
	extractInput       string
	extractOutDir      string
	extractOCRLanguage string
	extractVerbose     bool
)

func init() {
	extractTextCmd.Flags().StringVarP(&extractInput, "in", "i", "", "Resume file to extract text from")
	extractTextCmd.Flags().StringVarP(&extractOutDir, "out", "o", "", "Directory for resume.extracted.txt and resume.meta.json")
	extractTextCmd.Flags().StringVar(&extractOCRLanguage, "ocr-lang", "eng", "Tesseract language for image input, e.g. eng+fra")
	extractTextCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print detailed debug information")

	if err := extractTextCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark flag as required: %v", err))
	}

	rootCmd.AddCommand(extractTextCmd)
}

func supportedFormats() string {
	return strings.Join(ingestion.SupportedExtensions(), ", ")
}

func runExtractText(cmd *cobra.Command, _ []string) error {
	text, metadata, err := ingestion.ExtractText(context.Background(), extractInput, &ingestion.Options{
		OCRLanguage: extractOCRLanguage,
		Verbose:     extractVerbose,
	})
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}

	out := cmd.OutOrStdout()
	if extractVerbose {
		observability.NewPrinter(out).PrintExtractedText(text, metadata)
	}

	if extractOutDir == "" {
		_, _ = fmt.Fprintln(out, text)
		return nil
	}

	if err := ingestion.WriteOutput(extractOutDir, text, metadata); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Successfully extracted %d characters from %s (%s)\n", metadata.Characters, metadata.FileName, metadata.Format)
	_, _ = fmt.Fprintf(out, "Output: %s\n", extractOutDir)
	return nil
}
