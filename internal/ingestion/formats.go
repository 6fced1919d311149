package ingestion

import (
	"path/filepath"
	"sort"
	"strings"
)

// Format identifies the kind of a source file
type Format string

// Supported source formats
const (
	FormatDOCX  Format = "docx"
	FormatPDF   Format = "pdf"
	FormatODT   Format = "odt"
	FormatImage Format = "image"
	FormatHTML  Format = "html"
	FormatText  Format = "text"
)

var extensionFormats = map[string]Format{
	".docx": FormatDOCX,
	".pdf":  FormatPDF,
	".odt":  FormatODT,
	".png":  FormatImage,
	".jpg":  FormatImage,
	".jpeg": FormatImage,
	".tif":  FormatImage,
	".tiff": FormatImage,
	".bmp":  FormatImage,
	".html": FormatHTML,
	".htm":  FormatHTML,
	".txt":  FormatText,
	".md":   FormatText,
}

// DetectFormat returns the format of path based on its extension
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensionFormats[ext]; ok {
		return f, nil
	}
	return "", &UnsupportedFormatError{Path: path, Extension: ext}
}

// SupportedExtensions lists every recognized file extension
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extensionFormats))
	for ext := range extensionFormats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
