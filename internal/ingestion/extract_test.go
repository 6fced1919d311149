package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"cv.docx", FormatDOCX},
		{"CV.PDF", FormatPDF},
		{"cv.odt", FormatODT},
		{"scan.png", FormatImage},
		{"scan.JPEG", FormatImage},
		{"page.htm", FormatHTML},
		{"notes.txt", FormatText},
		{"notes.md", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f, err := DetectFormat(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestDetectFormat_Unsupported(t *testing.T) {
	for _, path := range []string{"cv.doc", "archive.zip", "README"} {
		_, err := DetectFormat(path)
		var unsupported *UnsupportedFormatError
		require.True(t, errors.As(err, &unsupported), path)
		assert.Equal(t, path, unsupported.Path)
	}
}

func TestSupportedExtensions_Sorted(t *testing.T) {
	exts := SupportedExtensions()
	assert.Contains(t, exts, ".docx")
	assert.IsIncreasing(t, exts)
}

func TestExtractText_PlainText(t *testing.T) {
	path := writeFile(t, "resume.txt", "Jane   Doe\r\n\n\n\nEngineer")

	text, meta, err := ExtractText(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n\nEngineer", text)
	assert.Equal(t, FormatText, meta.Format)
	assert.Equal(t, computeHash(text), meta.Hash)
}

func TestExtractText_HTML(t *testing.T) {
	path := writeFile(t, "resume.html", `<html><head><style>p{}</style><script>var x;</script></head>
<body><h1>Jane Doe</h1><p>Engineer at <b>Acme</b></p><ul><li>Go</li><li>SQL</li></ul></body></html>`)

	text, _, err := ExtractText(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nEngineer at Acme\n- Go\n- SQL", text)
}

func TestExtractText_Docx(t *testing.T) {
	doc := document.New()
	doc.AddParagraph("Jane Doe")
	doc.AddParagraph("Software Engineer")
	path := filepath.Join(t.TempDir(), "resume.docx")
	require.NoError(t, doc.Save(path))

	text, meta, err := ExtractText(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Software Engineer")
	assert.Equal(t, FormatDOCX, meta.Format)
}

func TestExtractText_Errors(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		path := writeFile(t, "resume.rtf", "{\\rtf1}")
		_, _, err := ExtractText(context.Background(), path, nil)
		var unsupported *UnsupportedFormatError
		assert.ErrorAs(t, err, &unsupported)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := ExtractText(context.Background(), filepath.Join(t.TempDir(), "gone.pdf"), nil)
		var readErr *ReadError
		require.ErrorAs(t, err, &readErr)
		assert.Equal(t, FormatPDF, readErr.Format)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("corrupt docx", func(t *testing.T) {
		path := writeFile(t, "broken.docx", "not a zip")
		_, _, err := ExtractText(context.Background(), path, nil)
		var readErr *ReadError
		assert.ErrorAs(t, err, &readErr)
	})

	t.Run("empty text", func(t *testing.T) {
		path := writeFile(t, "blank.txt", "  \n\n ")
		_, _, err := ExtractText(context.Background(), path, nil)
		var readErr *ReadError
		require.ErrorAs(t, err, &readErr)
		assert.Contains(t, readErr.Message, "no text")
	})

	t.Run("directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "folder.txt")
		require.NoError(t, os.Mkdir(dir, 0755))
		_, _, err := ExtractText(context.Background(), dir, nil)
		var readErr *ReadError
		assert.ErrorAs(t, err, &readErr)
	})

	t.Run("cancelled context", func(t *testing.T) {
		path := writeFile(t, "resume.txt", "Jane")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := ExtractText(ctx, path, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestExtractText_CustomExtractor(t *testing.T) {
	path := writeFile(t, "scan.png", "fake image bytes")
	var seen string
	opts := &Options{Extractors: map[Format]Extractor{
		FormatImage: ExtractorFunc(func(_ context.Context, p string) (string, error) {
			seen = p
			return "Jane Doe\nEngineer", nil
		}),
	}}

	text, meta, err := ExtractText(context.Background(), path, opts)
	require.NoError(t, err)
	assert.Equal(t, path, seen)
	assert.Equal(t, "Jane Doe\nEngineer", text)
	assert.Equal(t, FormatImage, meta.Format)
}

func TestExtractText_ExtractorErrorIsWrapped(t *testing.T) {
	path := writeFile(t, "resume.pdf", "%PDF")
	boom := errors.New("boom")
	opts := &Options{Extractors: map[Format]Extractor{
		FormatPDF: ExtractorFunc(func(context.Context, string) (string, error) { return "", boom }),
	}}

	_, _, err := ExtractText(context.Background(), path, opts)
	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.ErrorIs(t, err, boom)
}
