package scanning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrNoText is returned when no OCR attempt recognized any text
var ErrNoText = errors.New("no text recognized")

// Scanner defines the interface for turning a receipt image into raw text
type Scanner interface {
	// ExtractText reads every line of text from a receipt image or PDF
	ExtractText(ctx context.Context, imageData []byte, contentType string) (string, error)
	// Close closes the scanner and releases resources
	Close() error
}

// attempt is one engine configuration tried against an image
type attempt struct {
	name string
	run  func(ctx context.Context) (string, error)
}

// longestText runs every attempt and keeps the longest output. Failed attempts
// are skipped; the last failure is returned only if nothing produced text.
func longestText(ctx context.Context, attempts []attempt) (string, error) {
	var (
		best    string
		lastErr error
	)
	for _, a := range attempts {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := a.run(ctx)
		if err != nil {
			slog.Warn("OCR attempt failed", "attempt", a.name, "error", err)
			lastErr = err
			continue
		}
		slog.Debug("OCR attempt finished", "attempt", a.name, "length", len(text))
		if len(text) > len(best) {
			best = text
		}
	}

	if strings.TrimSpace(best) != "" {
		return best, nil
	}
	if lastErr != nil {
		return "", fmt.Errorf("all OCR attempts failed: %w", lastErr)
	}
	return "", ErrNoText
}
