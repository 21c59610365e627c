package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/calathea/tendril/pkg/templating"
)

// HelpersAPI holds the dependencies for the helper API handlers.
type HelpersAPI struct {
	registry *templating.Registry
	catalog  *templating.Catalog
	logger   *slog.Logger
}

// NewHelpersAPI creates a new instance of the HelpersAPI.
func NewHelpersAPI(registry *templating.Registry, catalog *templating.Catalog, logger *slog.Logger) *HelpersAPI {
	return &HelpersAPI{
		registry: registry,
		catalog:  catalog,
		logger:   logger,
	}
}

// RegisterRoutes sets up the routing for all /api/helpers endpoints.
func (h *HelpersAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/helpers", h.handleList)
	mux.HandleFunc("/api/helpers/sources", h.handleSources)
	mux.HandleFunc("/api/helpers/load", h.handleLoad)
	mux.HandleFunc("/api/helpers/test", h.handleTest)
}

// handleList returns the names of all registered helpers.
func (h *HelpersAPI) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, h.registry.Names())
}

// handleSources returns the names of all helper sources in the catalog.
func (h *HelpersAPI) handleSources(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, h.catalog.Names())
}

// handleLoad registers every helper from a cataloged source.
func (h *HelpersAPI) handleLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	name := r.URL.Query().Get("source")
	if name == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'source' is required")
		return
	}

	src, ok := h.catalog.Get(name)
	if !ok {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Helper source '%s' not found", name))
		return
	}

	if err := h.registry.Load(src); err != nil {
		h.logger.Error("API triggered helper load failed", "source", name, "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load helpers: %v", err))
		return
	}
	h.logger.Info("Helper source loaded via API", "source", name)
	respondWithJSON(w, http.StatusOK, h.registry.Names())
}

// testRequest is the payload for the helper test endpoint.
type testRequest struct {
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

// handleTest compiles a template string against caller-provided data
// without storing anything.
func (h *HelpersAPI) handleTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req testRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}
	if req.Template == "" {
		respondWithError(w, http.StatusBadRequest, "Field 'template' is required")
		return
	}

	out, err := h.registry.Compile(req.Template, req.Data)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Template compilation failed: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(out))
}
