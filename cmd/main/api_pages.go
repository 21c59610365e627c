package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/calathea/tendril/pkg/templating"
)

// PagesAPI holds the dependencies for the page API handlers.
type PagesAPI struct {
	pages    *PageStore
	registry *templating.Registry
	logger   *slog.Logger
}

// NewPagesAPI creates a new instance of the PagesAPI.
func NewPagesAPI(pages *PageStore, registry *templating.Registry, logger *slog.Logger) *PagesAPI {
	return &PagesAPI{
		pages:    pages,
		registry: registry,
		logger:   logger,
	}
}

// RegisterRoutes sets up the routing for all /api/pages endpoints.
func (p *PagesAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/pages/preview", p.handlePreview)
	mux.HandleFunc("/api/pages", p.handleList)
	mux.HandleFunc("/api/pages/", p.handlePage)
}

// handleList returns a list of all stored page names.
func (p *PagesAPI) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	names, err := p.pages.Names(r.Context())
	if err != nil {
		p.logger.Error("Failed to list pages", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to list pages: %v", err))
		return
	}
	if names == nil {
		names = []string{}
	}
	respondWithJSON(w, http.StatusOK, names)
}

// handlePreview renders a stored page without serving it on the site.
func (p *PagesAPI) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'name' is required")
		return
	}

	page, err := p.pages.Get(r.Context(), name)
	if errors.Is(err, ErrPageNotFound) {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Page '%s' not found", name))
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load page: %v", err))
		return
	}

	data := PageData{Path: "/" + name, Page: page.Name}
	out, err := p.registry.Compile(page.Content, data)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Page rendering failed: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

// handlePage manages CRUD operations for a single stored page.
func (p *PagesAPI) handlePage(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/pages/")
	if name == "" || strings.HasSuffix(name, "/") {
		respondWithError(w, http.StatusNotFound, "Not Found")
		return
	}
	if strings.Contains(name, "..") {
		respondWithError(w, http.StatusBadRequest, "Invalid page name")
		return
	}

	switch r.Method {
	case http.MethodGet:
		page, err := p.pages.Get(r.Context(), name)
		if errors.Is(err, ErrPageNotFound) {
			respondWithError(w, http.StatusNotFound, "Page not found")
			return
		}
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load page: %v", err))
			return
		}
		respondWithJSON(w, http.StatusOK, page)

	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read request body: %v", err))
			return
		}
		if err = p.pages.Put(r.Context(), name, string(body)); err != nil {
			p.logger.Error("Failed to store page", "page", name, "error", err)
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to store page: %v", err))
			return
		}
		p.logger.Info("Page stored via API", "page", name)
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		err := p.pages.Delete(r.Context(), name)
		if errors.Is(err, ErrPageNotFound) {
			respondWithError(w, http.StatusNotFound, "Page not found")
			return
		}
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to delete page: %v", err))
			return
		}
		p.logger.Info("Page deleted via API", "page", name)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
