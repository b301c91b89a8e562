package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
)

// maxUploadSize bounds multipart uploads; high-resolution phone photos are large
const maxUploadSize = int64(50 << 20) // 50MB

// maxJSONSize bounds JSON request bodies
const maxJSONSize = int64(5 << 20)

// writeJSON encodes v as the response body with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes a structured error object
func writeError(w http.ResponseWriter, code int, resp ErrorResponse) {
	writeJSON(w, code, resp)
}

// statusFor maps an error type to the HTTP status reported for it
func statusFor(errType string) int {
	switch errType {
	case ErrorTypeInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleUploadReceipt scans an uploaded image and returns the parsed receipt
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: errorMsg, Type: ErrorTypeInput})
		return
	}

	f, header, err := r.FormFile("image")
	if err != nil {
		f, header, err = r.FormFile("file")
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "No image uploaded", Type: ErrorTypeInput})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "Error reading file. Please try again.", Type: ErrorTypeInternal})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = ContentTypeFor(header.Filename)
	}

	scan, err := s.service.ProcessReceipt(r.Context(), header.Filename, data, strings.ToLower(strings.TrimSpace(contentType)))
	if err != nil {
		slog.Error("Error processing receipt", "filename", header.Filename, "error", err)
		resp := NewErrorResponse(err)
		writeError(w, statusFor(resp.Type), resp)
		return
	}

	if scan.ResultFile != "" {
		w.Header().Set("X-Result-File", scan.ResultFile)
	}
	writeJSON(w, http.StatusOK, scan.Receipt)
}

// parseRequest is the body of POST /api/parse
type parseRequest struct {
	Lines json.RawMessage `json:"lines"`
	Text  *string         `json:"text"`
}

// decodeParseRequest returns the lines to interpret from a parse request body
func decodeParseRequest(body io.Reader) ([]string, *string, error) {
	var req parseRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, nil, fmt.Errorf("%w: decoding request body: %w", ErrInvalidInput, err)
	}

	if len(req.Lines) > 0 && string(req.Lines) != "null" {
		var lines []string
		if err := json.Unmarshal(req.Lines, &lines); err != nil {
			return nil, nil, fmt.Errorf("%w: lines must be an array of strings", ErrInvalidInput)
		}
		return lines, nil, nil
	}
	if req.Text != nil {
		return nil, req.Text, nil
	}
	return nil, nil, fmt.Errorf("%w: lines or text is required", ErrInvalidInput)
}

// handleParse interprets OCR text sent by the client, skipping OCR entirely
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	lines, text, err := decodeParseRequest(http.MaxBytesReader(w, r.Body, maxJSONSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, NewErrorResponse(err))
		return
	}

	if text != nil {
		writeJSON(w, http.StatusOK, s.service.ParseText(*text))
		return
	}
	writeJSON(w, http.StatusOK, s.service.ParseLines(lines))
}

// handleRenderReceipt draws a receipt record into a PNG kept in storage
func (s *Server) handleRenderReceipt(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Error reading request body", Type: ErrorTypeInput})
		return
	}

	rec, err := DecodeReceipt(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid receipt data", Type: ErrorTypeInput})
		return
	}

	rendered, err := s.service.RenderReceipt(rec)
	if err != nil {
		slog.Error("Error rendering receipt", "error", err)
		resp := NewErrorResponse(err)
		writeError(w, statusFor(resp.Type), resp)
		return
	}

	writeJSON(w, http.StatusOK, rendered)
}

// handleGetFile serves a stored result or rendered image
func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetFile(r.PathValue("name"))
	if err != nil {
		if errors.Is(err, ErrInvalidFilename) {
			http.Error(w, "Invalid filename", http.StatusBadRequest)
			return
		}
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteFile removes a stored result or rendered image
func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteFile(r.PathValue("name")); err != nil {
		if errors.Is(err, ErrInvalidFilename) {
			http.Error(w, "Invalid filename", http.StatusBadRequest)
			return
		}
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		slog.Error("Error deleting file", "error", err)
		http.Error(w, "Error deleting file", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
