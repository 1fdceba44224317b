// Package server exposes a session over a JSON HTTP API.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/wordmemo/internal/filter"
	"github.com/at-ishikawa/wordmemo/internal/learning"
	"github.com/at-ishikawa/wordmemo/internal/session"
	"github.com/at-ishikawa/wordmemo/internal/speech"
	"github.com/at-ishikawa/wordmemo/internal/statistics"
	"github.com/at-ishikawa/wordmemo/internal/studysheet"
)

type Handler struct {
	session  *session.Session
	exporter *studysheet.Exporter
	retries  uint
	logger   *slog.Logger
	validate *validator.Validate
}

type HandlerOption func(*Handler)

// WithExporter enables POST /api/exports.
func WithExporter(exporter *studysheet.Exporter) HandlerOption {
	return func(h *Handler) {
		h.exporter = exporter
	}
}

// WithRetries sets how many times a failed AI analysis is retried.
func WithRetries(retries uint) HandlerOption {
	return func(h *Handler) {
		h.retries = retries
	}
}

func NewHandler(sess *session.Session, logger *slog.Logger, options ...HandlerOption) *Handler {
	h := &Handler{
		session:  sess,
		logger:   logger,
		validate: validator.New(),
	}
	for _, option := range options {
		option(h)
	}
	return h
}

// Router builds the routes with the middleware stack.
func (h *Handler) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(allowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyses", h.SubmitPrefix)
		r.Delete("/analyses", h.ClearAnalysis)
		r.Get("/view", h.GetView)

		r.Put("/filters", h.SetFilters)
		r.Patch("/filters", h.UpdateFilter)
		r.Delete("/filters", h.ResetFilters)

		r.Get("/statuses", h.ListStatuses)
		r.Put("/statuses/{word}", h.SetStatus)

		r.Get("/vocabulary", h.MatchVocabulary)
		r.Post("/speech", h.Speak)
		r.Post("/exports", h.Export)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			h.logger.Error("failed to write health check response", "error", err)
		}
	})
	return r
}

// NewServer serves handler over HTTP/1.1 and cleartext HTTP/2.
func NewServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
}

func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type analyzeRequest struct {
	Prefix string `json:"prefix"`
}

// SubmitPrefix analyzes the words of a prefix and returns the new view.
func (h *Handler) SubmitPrefix(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if _, err := h.session.SubmitPrefixWithRetry(r.Context(), req.Prefix, h.retries); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, h.session.View())
}

func (h *Handler) ClearAnalysis(w http.ResponseWriter, r *http.Request) {
	h.session.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.session.View())
}

type filtersRequest struct {
	PartOfSpeech   string       `json:"partOfSpeech" validate:"required"`
	WordLength     filter.Range `json:"wordLength"`
	LearningStatus string       `json:"learningStatus" validate:"required"`
}

// SetFilters replaces every criterion at once.
func (h *Handler) SetFilters(w http.ResponseWriter, r *http.Request) {
	var req filtersRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	criteria := filter.Criteria{
		PartOfSpeech:   req.PartOfSpeech,
		WordLength:     req.WordLength,
		LearningStatus: req.LearningStatus,
	}
	if err := h.session.SetCriteria(criteria); err != nil {
		h.respondError(w, r, &badRequestError{err: err})
		return
	}
	h.respondJSON(w, http.StatusOK, h.session.View())
}

type updateFilterRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=pos length min max status"`
	Value string `json:"value" validate:"required"`
}

// UpdateFilter changes one criterion.
func (h *Handler) UpdateFilter(w http.ResponseWriter, r *http.Request) {
	var req updateFilterRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if _, err := h.session.UpdateFilter(filter.Kind(req.Kind), req.Value); err != nil {
		h.respondError(w, r, &badRequestError{err: err})
		return
	}
	h.respondJSON(w, http.StatusOK, h.session.View())
}

func (h *Handler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	h.session.ResetFilters()
	h.respondJSON(w, http.StatusOK, h.session.View())
}

func (h *Handler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.session.Statuses())
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type setStatusResponse struct {
	Word     string                  `json:"word"`
	Status   learning.LearningStatus `json:"status"`
	Progress statistics.Progress     `json:"progress"`
}

// SetStatus records the learning status of the word in the path.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	word, err := url.PathUnescape(chi.URLParam(r, "word"))
	if err != nil {
		h.respondError(w, r, badRequest("invalid word %q", chi.URLParam(r, "word")))
		return
	}
	word = strings.TrimSpace(word)
	var req setStatusRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	status, err := learning.ParseStatus(req.Status)
	if err != nil {
		h.respondError(w, r, &badRequestError{err: err})
		return
	}
	if _, err := h.session.SetWordStatus(r.Context(), word, status); err != nil {
		h.respondError(w, r, &badRequestError{err: err})
		return
	}
	h.respondJSON(w, http.StatusOK, setStatusResponse{
		Word:     word,
		Status:   status,
		Progress: h.session.View().Progress,
	})
}

type vocabularyResponse struct {
	Prefix string   `json:"prefix"`
	Words  []string `json:"words"`
}

// MatchVocabulary lists the known words starting with the prefix query parameter.
func (h *Handler) MatchVocabulary(w http.ResponseWriter, r *http.Request) {
	prefix := strings.TrimSpace(r.URL.Query().Get("prefix"))
	if prefix == "" {
		h.respondError(w, r, badRequest("prefix query parameter is required"))
		return
	}
	h.respondJSON(w, http.StatusOK, vocabularyResponse{
		Prefix: prefix,
		Words:  h.session.Vocabulary().Match(prefix),
	})
}

type speakRequest struct {
	Text   string `json:"text" validate:"required"`
	Locale string `json:"locale"`
}

// Speak starts reading text aloud on the server host.
func (h *Handler) Speak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.Locale == "" {
		req.Locale = speech.DefaultLocale
	}
	h.session.Speak(req.Text, req.Locale)
	w.WriteHeader(http.StatusAccepted)
}

type exportRequest struct {
	PDF bool `json:"pdf"`
}

type exportResponse struct {
	Markdown string `json:"markdown"`
	PDF      string `json:"pdf,omitempty"`
}

// Export writes a study sheet of the current view.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		h.respondJSON(w, http.StatusNotImplemented, ErrorResponse{
			Error:     "study sheet export is not configured",
			RequestID: middleware.GetReqID(r.Context()),
		})
		return
	}
	var req exportRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	paths, err := h.exporter.Export(h.session.View(), req.PDF)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, exportResponse{
		Markdown: paths.Markdown,
		PDF:      paths.PDF,
	})
}
