//go:build !ocr

package ingestion

import "context"

// ocrExtractor is a stub; image sources need a build with -tags ocr
type ocrExtractor struct {
	language string
}

func (o *ocrExtractor) Extract(_ context.Context, _ string) (string, error) {
	return "", ErrOCRNotEnabled
}
