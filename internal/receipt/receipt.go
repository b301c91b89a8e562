package receipt

import (
	"time"

	"github.com/zombor/receipt-scanner/internal/parsing"
)

// Scan is the outcome of scanning and parsing one receipt image
type Scan struct {
	ID         string           `json:"id"`
	Source     string           `json:"source"`      // uploaded filename or path
	ResultFile string           `json:"result_file"` // empty when no storage is configured
	Receipt    *parsing.Receipt `json:"receipt"`
	ScannedAt  time.Time        `json:"scanned_at"`
}

// Rendered describes a receipt image written to storage
type Rendered struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}
