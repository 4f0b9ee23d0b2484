package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Jef808/pyextract/internal/extractor"
	"github.com/Jef808/pyextract/internal/parser"
)

// ExtractRequest is the request body for an extraction
type ExtractRequest struct {
	Filename string `json:"filename,omitempty"`
	Source   string `json:"source"`
}

// ExtractResponse is the API response for a successful extraction
type ExtractResponse struct {
	RequestID uuid.UUID         `json:"request_id"`
	Filename  string            `json:"filename,omitempty"`
	Module    *extractor.Module `json:"module"`
}

// ErrorResponse is the API response for a failed extraction
type ErrorResponse struct {
	RequestID uuid.UUID `json:"request_id"`
	Error     string    `json:"error"`
	Line      int       `json:"line,omitempty"`
	Column    int       `json:"column,omitempty"`
}

// extractHandler parses the posted source and returns its module record.
// Invalid Python yields 422 with the error position; a bad request body
// yields 400.
func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New()

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			RequestID: requestID,
			Error:     "invalid request body",
		})
		return
	}

	// tree-sitter parsers are stateful, so each request gets its own
	tree, err := parser.NewParser().Parse(r.Context(), []byte(req.Source))
	if err != nil {
		var syntaxErr *parser.SyntaxError
		if errors.As(err, &syntaxErr) {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				RequestID: requestID,
				Error:     syntaxErr.Error(),
				Line:      syntaxErr.Line,
				Column:    syntaxErr.Column,
			})
			return
		}
		log.Error().Err(err).Stringer("request_id", requestID).Msg("parse failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			RequestID: requestID,
			Error:     "parse failed",
		})
		return
	}
	defer tree.Close()

	writeJSON(w, http.StatusOK, ExtractResponse{
		RequestID: requestID,
		Filename:  req.Filename,
		Module:    extractor.Extract(tree),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
