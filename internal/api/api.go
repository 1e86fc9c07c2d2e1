// Package api exposes a read-only HTTP view of the triage store for
// dashboards and local tooling. All mutation goes through the MCP tool
// surface; this API only reads.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/inboxatlas/inboxatlas/pkg/category"
	"github.com/inboxatlas/inboxatlas/pkg/render/dot"
	"github.com/inboxatlas/inboxatlas/pkg/render/mermaid"
	"github.com/inboxatlas/inboxatlas/pkg/store"
)

// Handler serves the read-only triage API.
type Handler struct {
	store store.Store
}

// NewHandler creates a Handler backed by the store.
func NewHandler(store store.Store) *Handler {
	return &Handler{store: store}
}

// Router builds the chi router with all routes registered.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(observe)

	r.Get("/healthz", h.handleHealthz)
	r.Get("/categories", h.handleCategories)
	r.Get("/classifications", h.handleClassifications)
	r.Get("/diagram", h.handleDiagram)
	r.Get("/stats", h.handleStats)

	return r
}

// NewServer wraps the router in an http.Server bound to addr.
func NewServer(addr string, h *Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []category.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleClassifications(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	records, err := h.store.ListClassifications(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []store.Classification{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleDiagram(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "mermaid"
	}

	records, err := h.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	switch format {
	case "mermaid":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(mermaid.Render(records)))
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		w.Write([]byte(dot.ToDOT(category.BuildForest(records), dot.Options{})))
	case "svg":
		src := dot.ToDOT(category.BuildForest(records), dot.Options{})
		svg, err := dot.RenderSVG(src)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svg)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown format (must be mermaid, dot, or svg)"})
	}
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
