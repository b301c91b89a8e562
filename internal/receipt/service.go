package receipt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/receipt-scanner/internal/parsing"
	"github.com/zombor/receipt-scanner/internal/render"
	"github.com/zombor/receipt-scanner/internal/scanning"
)

// IDGenerator generates unique IDs for results
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	repeatedSpaces      = regexp.MustCompile(`\s+`)
)

// Service handles receipt operations
type Service struct {
	scanner     scanning.Scanner
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source.
// storage may be nil, in which case scan results are only returned.
func NewService(scanner scanning.Scanner, storage Storage) *Service {
	return &Service{
		scanner:     scanner,
		storage:     storage,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(scanner scanning.Scanner, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		scanner:     scanner,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)

	// Keep only alphanumeric, spaces, hyphens, and underscores
	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = repeatedSpaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "receipt"
	}

	return base + ext
}

// ResultFilename names the JSON result written for a scanned source file
func ResultFilename(source string) string {
	name := sanitizeFilename(source)
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".json"
}

// ContentTypeFor guesses a content type from a file extension
func ContentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// ProcessReceipt runs OCR over an uploaded image, parses the text and
// writes the structured result to storage as receipt-<id>.json
func (s *Service) ProcessReceipt(ctx context.Context, filename string, data []byte, contentType string) (*Scan, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	text, err := s.scanner.ExtractText(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("%w %s: %w", ErrScan, filename, err)
	}
	slog.Debug("Recognized receipt text", "filename", filename, "length", len(text))

	scan := &Scan{
		ID:        id,
		Source:    filename,
		Receipt:   parsing.ParseText(text),
		ScannedAt: now,
	}

	if s.storage != nil {
		name, err := s.saveJSON(fmt.Sprintf("receipt-%s.json", id), scan.Receipt)
		if err != nil {
			return nil, err
		}
		scan.ResultFile = name
	}

	slog.Info("Scanned receipt",
		"id", id,
		"filename", filename,
		"items", len(scan.Receipt.Items),
		"currency", scan.Receipt.Totals.Currency,
	)
	return scan, nil
}

// saveJSON writes v as indented JSON to storage
func (s *Service) saveJSON(filename string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	name, err := s.storage.Save(filename, data)
	if err != nil {
		return "", fmt.Errorf("saving result: %w", err)
	}
	return name, nil
}

// ParseLines interprets already-recognized receipt lines
func (s *Service) ParseLines(lines []string) *parsing.Receipt {
	return parsing.Parse(lines)
}

// ParseText interprets a raw multi-line OCR transcript
func (s *Service) ParseText(text string) *parsing.Receipt {
	return parsing.ParseText(text)
}

// DecodeReceipt reads a receipt record from JSON. The record must carry an
// items array; every other field is optional.
func DecodeReceipt(data []byte) (*parsing.Receipt, error) {
	var probe struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReceipt, err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(probe.Items), []byte("[")) {
		return nil, ErrInvalidReceipt
	}

	var rec parsing.Receipt
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReceipt, err)
	}
	return &rec, nil
}

// RenderReceipt draws a receipt into storage as receipt-<id>.png
func (s *Service) RenderReceipt(rec *parsing.Receipt) (*Rendered, error) {
	if rec == nil || rec.Items == nil {
		return nil, ErrInvalidReceipt
	}
	if s.storage == nil {
		return nil, fmt.Errorf("rendering requires storage")
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	name, err := s.storage.Save(fmt.Sprintf("receipt-%s.png", s.idGenerator.Generate()), buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("saving rendered receipt: %w", err)
	}

	return &Rendered{
		Message:  "Receipt generated successfully",
		Filename: name,
		Path:     "/api/files/" + name,
	}, nil
}

// GetFile retrieves a stored result or rendered image with its content type
func (s *Service) GetFile(filename string) ([]byte, string, error) {
	if s.storage == nil {
		return nil, "", fmt.Errorf("no storage configured")
	}
	data, err := s.storage.Get(filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting file: %w", err)
	}
	return data, ContentTypeFor(filename), nil
}

// DeleteFile removes a stored result or rendered image
func (s *Service) DeleteFile(filename string) error {
	if s.storage == nil {
		return fmt.Errorf("no storage configured")
	}
	if err := s.storage.Delete(filename); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
