package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/at-ishikawa/wordmemo/internal/analysis"
	"github.com/at-ishikawa/wordmemo/internal/session"
	"github.com/at-ishikawa/wordmemo/internal/studysheet"
	"github.com/at-ishikawa/wordmemo/internal/vocabulary"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// badRequestError marks malformed input that never reached the session.
type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string {
	return e.err.Error()
}

func (e *badRequestError) Unwrap() error {
	return e.err
}

func badRequest(format string, args ...any) error {
	return &badRequestError{err: fmt.Errorf(format, args...)}
}

// statusCode maps an error to the HTTP status returned to clients.
func statusCode(err error) int {
	var emptyPrefix vocabulary.EmptyPrefixError
	var noMatch *vocabulary.NoMatchError
	var aiErr *analysis.AIResponseError
	var invalid *badRequestError
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &emptyPrefix), errors.As(err, &invalid), errors.As(err, &validationErrors):
		return http.StatusBadRequest
	case errors.As(err, &noMatch), errors.Is(err, studysheet.ErrNoResult):
		return http.StatusNotFound
	case errors.Is(err, session.ErrAnalysisInProgress):
		return http.StatusConflict
	case errors.As(err, &aiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", "error", err)
	}
}

// respondError logs err and writes its user-facing message. Server errors
// hide the cause from the client.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusCode(err)
	requestID := middleware.GetReqID(r.Context())

	message := session.UserMessage(err)
	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
		if status == http.StatusInternalServerError {
			message = http.StatusText(status)
		}
	}
	h.logger.Log(r.Context(), level, "request failed",
		"status", status,
		"method", r.Method,
		"path", r.URL.Path,
		"requestId", requestID,
		"error", err,
	)

	h.respondJSON(w, status, ErrorResponse{
		Error:     message,
		RequestID: requestID,
	})
}

// decodeJSON reads a request body strictly and validates it.
func (h *Handler) decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return badRequest("invalid request: %v", err)
	}
	return nil
}
