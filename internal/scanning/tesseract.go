package scanning

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// defaultPageSegModes are tried in order; receipts are usually one uniform
// block, sometimes a single column, occasionally need full page layout
var defaultPageSegModes = []gosseract.PageSegMode{
	gosseract.PSM_SINGLE_BLOCK,
	gosseract.PSM_SINGLE_COLUMN,
	gosseract.PSM_AUTO,
}

// Tesseract implements the Scanner interface using a local Tesseract install
type Tesseract struct {
	languages []string
	modes     []gosseract.PageSegMode
}

// NewTesseract creates a new Tesseract Scanner instance
func NewTesseract(languages ...string) *Tesseract {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Tesseract{
		languages: languages,
		modes:     defaultPageSegModes,
	}
}

// ExtractText preprocesses the image and runs OCR once per page
// segmentation mode, keeping the longest transcript
func (t *Tesseract) ExtractText(ctx context.Context, imageData []byte, contentType string) (string, error) {
	bitmap, err := preprocessedPNG(imageData, contentType)
	if err != nil {
		return "", fmt.Errorf("preprocessing image: %w", err)
	}

	attempts := make([]attempt, 0, len(t.modes))
	for _, mode := range t.modes {
		attempts = append(attempts, attempt{
			name: fmt.Sprintf("tesseract psm %d", mode),
			run: func(ctx context.Context) (string, error) {
				return t.recognize(bitmap, mode)
			},
		})
	}
	return longestText(ctx, attempts)
}

// recognize runs a single Tesseract pass over a PNG bitmap
func (t *Tesseract) recognize(bitmap []byte, mode gosseract.PageSegMode) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("setting language: %w", err)
	}
	if err := client.SetPageSegMode(mode); err != nil {
		return "", fmt.Errorf("setting page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(bitmap); err != nil {
		return "", fmt.Errorf("loading image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing text: %w", err)
	}
	return text, nil
}

// Close is a no-op; each pass owns its own client
func (t *Tesseract) Close() error {
	return nil
}
