// Package httpserver exposes the catalog and the plot pipeline over a JSON
// HTTP API for the dashboard frontend.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gridsight/gridsight/core"
	"github.com/gridsight/gridsight/internal/catalog"
	"github.com/gridsight/gridsight/schema"
)

// Server serves the dashboard API. Construct with New and run via ListenAndServe.
type Server struct {
	pipeline *core.Pipeline
	catalog  *catalog.Catalog
	log      *slog.Logger
	http     *http.Server
}

// New builds a server bound to addr. The registry may be nil to skip the
// metrics endpoint.
func New(addr string, pipeline *core.Pipeline, cat *catalog.Catalog, reg *prometheus.Registry, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{pipeline: pipeline, catalog: cat, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	r.Get("/healthz", s.handleHealth)
	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	r.Route("/api", func(r chi.Router) {
		r.Get("/sites", s.handleSites)
		r.Get("/sites/{site}/categories", s.handleCategories)
		r.Get("/sites/{site}/files", s.handleFiles)
		r.Get("/sites/{site}/series/{kind}", s.handleSeries)
	})

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the routed handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.log.Info("http server listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.catalog.Sites()
	if err != nil {
		s.writeError(w, err)
		return
	}
	type siteView struct {
		Name        string            `json:"name"`
		DisplayName string            `json:"display_name"`
		Categories  []schema.Category `json:"categories"`
	}
	views := make([]siteView, 0, len(sites))
	for _, site := range sites {
		views = append(views, siteView{
			Name:        site.Name,
			DisplayName: site.DisplayName(),
			Categories:  site.Categories,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"sites": views})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.catalog.Categories(chi.URLParam(r, "site"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.catalog.Files(chi.URLParam(r, "site"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

// seriesResponse is the wire shape of one assembled series. Values are
// column-oriented to match the dataset layout the charts consume.
type seriesResponse struct {
	Site       string               `json:"site"`
	Category   schema.Category      `json:"category"`
	Kind       schema.PlotKind      `json:"kind"`
	Columns    []string             `json:"columns,omitempty"`
	Values     map[string][]float64 `json:"values,omitempty"`
	Times      []time.Time          `json:"times,omitempty"`
	Diagnostic schema.Diagnostic    `json:"diagnostic"`
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	req := core.SeriesRequest{
		Site:     chi.URLParam(r, "site"),
		Kind:     schema.PlotKind(chi.URLParam(r, "kind")),
		Category: schema.Category(r.URL.Query().Get("category")),
	}
	result, err := s.pipeline.AssembleSeries(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := seriesResponse{
		Site:       req.Site,
		Kind:       req.Kind,
		Diagnostic: result.Diagnostic,
	}
	if result.Series != nil {
		resp.Category = result.Series.Category
		resp.Columns = result.Series.Columns
		resp.Values = result.Series.Values
		resp.Times = result.Series.Times
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, schema.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, schema.ErrDataUnavailable):
		status = http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusRequestTimeout
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
