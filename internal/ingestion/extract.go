// Package ingestion extracts plain text from resume source files.
//
// Word-processor documents and PDFs go through tabula, images through
// Tesseract OCR (build tag "ocr"), HTML through goquery, and plain text is read
// as is. The result is normalized with CleanText.
package ingestion

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/tsawler/tabula"
)

// Extractor pulls raw text out of one kind of source file
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface
type ExtractorFunc func(ctx context.Context, path string) (string, error)

// Extract calls f(ctx, path)
func (f ExtractorFunc) Extract(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// Options configures ExtractText
type Options struct {
	// Extractors overrides the extractor used per format
	Extractors map[Format]Extractor
	// OCRLanguage is the Tesseract language string, e.g. "eng" or "eng+fra"
	OCRLanguage string
	// Verbose logs extraction details
	Verbose bool
}

// DefaultExtractors returns the standard extractor for every format
func DefaultExtractors(ocrLanguage string) map[Format]Extractor {
	return map[Format]Extractor{
		FormatDOCX:  ExtractorFunc(extractWithTabula),
		FormatPDF:   ExtractorFunc(extractWithTabula),
		FormatODT:   ExtractorFunc(extractWithTabula),
		FormatImage: &ocrExtractor{language: ocrLanguage},
		FormatHTML:  ExtractorFunc(extractHTMLFile),
		FormatText:  ExtractorFunc(extractPlainText),
	}
}

// ExtractText detects the format of path, extracts its text and cleans it.
// It returns *UnsupportedFormatError for unknown kinds and *ReadError when
// the file cannot be read.
func ExtractText(ctx context.Context, path string, opts *Options) (string, *Metadata, error) {
	if opts == nil {
		opts = &Options{}
	}
	format, err := DetectFormat(path)
	if err != nil {
		return "", nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", nil, &ReadError{Path: path, Format: format, Message: "file not accessible", Cause: err}
	}
	if info.IsDir() {
		return "", nil, &ReadError{Path: path, Format: format, Message: "path is a directory"}
	}
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	extractor := opts.Extractors[format]
	if extractor == nil {
		extractor = DefaultExtractors(opts.OCRLanguage)[format]
	}
	if opts.Verbose {
		log.Printf("[VERBOSE] Extracting %s (%s, %d bytes)", path, format, info.Size())
	}

	raw, err := extractor.Extract(ctx, path)
	if err != nil {
		if _, ok := err.(*ReadError); ok {
			return "", nil, err
		}
		return "", nil, &ReadError{Path: path, Format: format, Cause: err}
	}

	text := CleanText(raw)
	if strings.TrimSpace(text) == "" {
		return "", nil, &ReadError{Path: path, Format: format, Message: "no text could be extracted"}
	}
	if opts.Verbose {
		log.Printf("[VERBOSE] Extracted %d characters", len(text))
	}

	return text, NewMetadata(text, path, format), nil
}

// extractWithTabula handles docx, odt and pdf files
func extractWithTabula(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, warnings, err := tabula.Open(path).Text()
	if err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	if len(warnings) > 0 {
		log.Printf("Warning: %d extraction warning(s) for %s: %v", len(warnings), path, warnings)
	}
	return text, nil
}

func extractPlainText(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
