package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/silindokuhleL/document-search-portal/internal/core/ports"
	"github.com/silindokuhleL/document-search-portal/internal/observability/metrics"
)

const (
	defaultBackpressureWait = 250 * time.Millisecond
	multipartMemory         = 8 << 20
	multipartOverhead       = 1 << 20
)

type Config struct {
	Service          string
	RateLimitRPS     float64
	RateLimitBurst   int
	MaxInFlight      int
	BackpressureWait time.Duration
	CORSOrigin       string
	MaxUploadBytes   int64
}

type Router struct {
	ingest  ports.DocumentIngestor
	search  ports.DocumentSearcher
	catalog ports.DocumentCatalog
	metrics *metrics.HTTPServerMetrics
	cfg     Config
}

func NewRouter(
	ingest ports.DocumentIngestor,
	search ports.DocumentSearcher,
	catalog ports.DocumentCatalog,
	httpMetrics *metrics.HTTPServerMetrics,
	cfg Config,
) *Router {
	if cfg.Service == "" {
		cfg.Service = "api"
	}
	if cfg.BackpressureWait <= 0 {
		cfg.BackpressureWait = defaultBackpressureWait
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	return &Router{
		ingest:  ingest,
		search:  search,
		catalog: catalog,
		metrics: httpMetrics,
		cfg:     cfg,
	}
}

// Handler fails only when the embedded OpenAPI contract is invalid.
func (rt *Router) Handler() (http.Handler, error) {
	validator, err := newRequestValidator()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware, accessLogMiddleware, recoverMiddleware)
	r.Use(func(next http.Handler) http.Handler { return corsMiddleware(rt.cfg.CORSOrigin, next) })
	if rt.metrics != nil {
		r.Use(func(next http.Handler) http.Handler { return rt.metrics.Middleware(rt.cfg.Service, next) })
	}

	r.Get("/healthz", rt.healthz)
	r.Get("/openapi.yaml", rt.openAPI)
	if rt.metrics != nil {
		r.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(func(next http.Handler) http.Handler {
			return rateLimitMiddleware(next, rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst)
		})
		v1.Use(func(next http.Handler) http.Handler {
			return backpressureMiddleware(next, rt.cfg.MaxInFlight, rt.cfg.BackpressureWait)
		})
		v1.Use(validator.middleware)

		v1.Get("/search", rt.searchDocuments)
		v1.Get("/search/suggestions", rt.suggestPhrases)

		v1.Post("/documents", rt.uploadDocument)
		v1.Get("/documents", rt.listDocuments)
		v1.Get("/documents/{id}", rt.getDocument)
		v1.Delete("/documents/{id}", rt.deleteDocument)
		v1.Get("/documents/{id}/download", rt.downloadDocument)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})
	return r, nil
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) openAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Length", fmt.Sprint(len(openAPISpec)))
	_, _ = w.Write(openAPISpec)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
