package receipt

import (
	"errors"

	"github.com/zombor/receipt-scanner/internal/scanning"
)

var (
	// ErrInvalidInput is returned for requests that are not usable at all
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidReceipt is returned when a render request has no items array
	ErrInvalidReceipt = errors.New("invalid receipt data")
	// ErrInvalidFilename is returned for stored file names that are not plain names
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrScan wraps every failure of the OCR collaborator
	ErrScan = errors.New("scanning receipt")
	// ErrRender wraps every failure while drawing a receipt image
	ErrRender = errors.New("rendering receipt")
)

// Error types reported to HTTP and CLI callers
const (
	ErrorTypeInput    = "input"
	ErrorTypeScan     = "scan"
	ErrorTypeRender   = "render"
	ErrorTypeInternal = "internal"
)

// ErrorResponse is the structured error object returned instead of a crash
type ErrorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

// NewErrorResponse classifies err into a structured error object
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{Error: err.Error(), Type: errorType(err)}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidReceipt), errors.Is(err, ErrInvalidFilename):
		return ErrorTypeInput
	case errors.Is(err, ErrScan), errors.Is(err, scanning.ErrNoText):
		return ErrorTypeScan
	case errors.Is(err, ErrRender):
		return ErrorTypeRender
	default:
		return ErrorTypeInternal
	}
}
