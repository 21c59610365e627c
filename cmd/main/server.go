package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/calathea/tendril/pkg/lifecycle"
	"github.com/calathea/tendril/pkg/templating"
)

// PageData is the data object every page is rendered against.
type PageData struct {
	Path  string
	Page  string
	Query map[string][]string
}

type Server struct {
	config     *Config
	db         *sql.DB
	logger     *slog.Logger
	registry   *templating.Registry
	catalog    *templating.Catalog
	bus        *lifecycle.Bus
	pages      *PageStore
	eventLog   *EventLog
	pagesAPI   *PagesAPI
	helpersAPI *HelpersAPI
	serverAPI  *ServerAPI
	siteMux    *http.ServeMux
	apiMux     *http.ServeMux
}

func NewServer(config *Config, logger *slog.Logger, db *sql.DB, bus *lifecycle.Bus, actionChan chan string) (*Server, error) {
	ctx := context.Background()

	registry := templating.NewRegistry(logger, template.New("site"))
	catalog := templating.DefaultCatalog()

	// Subscribed before anything is published so the log sees the whole
	// startup sequence.
	eventLog := NewEventLog(config.Site.EventLogSize, bus)

	// Helper sources are the components of this application; loading them
	// is bracketed by the corresponding lifecycle events.
	bus.Publish(ctx, lifecycle.BeforeComponentsLoad, map[string]any{"sources": config.Site.HelperSources})
	for _, name := range config.Site.HelperSources {
		src, ok := catalog.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown helper source %q in config", name)
		}
		if err := registry.Load(src); err != nil {
			return nil, err
		}
	}
	bus.Publish(ctx, lifecycle.AfterComponentsLoaded, map[string]any{"helpers": len(registry.Names())})

	pages := NewPageStore(db)

	// api initialization
	pagesAPI := NewPagesAPI(pages, registry, logger)
	helpersAPI := NewHelpersAPI(registry, catalog, logger)
	serverAPI := NewServerAPI(config, actionChan, eventLog, logger)

	server := &Server{
		config:     config,
		db:         db,
		logger:     logger,
		registry:   registry,
		catalog:    catalog,
		bus:        bus,
		pages:      pages,
		eventLog:   eventLog,
		pagesAPI:   pagesAPI,
		helpersAPI: helpersAPI,
		serverAPI:  serverAPI,
		siteMux:    http.NewServeMux(),
		apiMux:     http.NewServeMux(),
	}

	bus.Publish(ctx, lifecycle.BeforeRoutes, nil)
	server.pagesAPI.RegisterRoutes(server.apiMux)
	server.helpersAPI.RegisterRoutes(server.apiMux)
	server.serverAPI.RegisterRoutes(server.apiMux)
	server.siteMux.HandleFunc("/assets/", server.handleAsset)
	server.siteMux.HandleFunc("/", server.handlePage)
	bus.Publish(ctx, lifecycle.AfterRoutes, nil)

	return server, nil
}

// pageName maps a request path to a stored page name.
func (s *Server) pageName(path string) string {
	name := strings.Trim(path, "/")
	if name == "" {
		return s.config.Site.IndexPage
	}
	return name
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := s.pageName(r.URL.Path)

	s.bus.Publish(ctx, lifecycle.BeforeRequestHandler, map[string]any{
		"path":        r.URL.Path,
		"page":        name,
		"remote_addr": r.RemoteAddr,
	})

	status := s.servePage(w, r, name)

	s.bus.Publish(ctx, lifecycle.AfterRequestHandler, map[string]any{
		"path":   r.URL.Path,
		"page":   name,
		"status": status,
	})
}

// servePage renders the named page and returns the response status.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request, name string) int {
	ctx := r.Context()

	page, err := s.pages.Get(ctx, name)
	if errors.Is(err, ErrPageNotFound) {
		s.bus.Publish(ctx, lifecycle.PageNotFound, map[string]any{
			"path": r.URL.Path,
			"page": name,
		})
		s.renderNotFound(w, r)
		return http.StatusNotFound
	}
	if err != nil {
		s.logger.Error("Failed to look up page", "page", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return http.StatusInternalServerError
	}

	data := PageData{Path: r.URL.Path, Page: page.Name, Query: r.URL.Query()}
	out, err := s.registry.Compile(page.Content, data)
	if err != nil {
		s.logger.Error("Failed to render page", "page", page.Name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return http.StatusInternalServerError
	}

	s.bus.Publish(ctx, lifecycle.DocumentCreated, map[string]any{
		"page":  page.Name,
		"bytes": len(out),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(out))
	return http.StatusOK
}

// renderNotFound serves the configured not-found page, falling back to a
// plain 404 when none is configured or it fails to render.
func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request) {
	name := s.config.Site.NotFoundPage
	if name == "" {
		http.NotFound(w, r)
		return
	}

	page, err := s.pages.Get(r.Context(), name)
	if err != nil {
		if !errors.Is(err, ErrPageNotFound) {
			s.logger.Error("Failed to look up not-found page", "page", name, "error", err)
		}
		http.NotFound(w, r)
		return
	}

	data := PageData{Path: r.URL.Path, Page: page.Name, Query: r.URL.Query()}
	out, err := s.registry.Compile(page.Content, data)
	if err != nil {
		s.logger.Error("Failed to render not-found page", "page", name, "error", err)
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(out))
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := strings.TrimPrefix(r.URL.Path, "/assets/")

	assetDir, err := filepath.Abs(s.config.Site.AssetDir)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	path := filepath.Join(assetDir, filepath.FromSlash(name))
	absPath, err := filepath.Abs(path)
	if err != nil || !strings.HasPrefix(absPath, assetDir+string(filepath.Separator)) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	s.bus.Publish(ctx, lifecycle.BeforeAssetAccess, map[string]any{"asset": name})
	http.ServeFile(w, r, absPath)
	s.bus.Publish(ctx, lifecycle.AfterAssetAccess, map[string]any{"asset": name})
}
