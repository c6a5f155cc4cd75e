package http

import (
	"net/http"

	"github.com/benjination/portfolio-blog/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterOptions configures the relay's outer surface.
type RouterOptions struct {
	AllowedOrigin string

	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
}

// RegisterRoutes mounts the regenerate endpoint on r.
func (h *RelayHandler) RegisterRoutes(r chi.Router) {
	r.Post(RegeneratePath, h.HandleRegenerate)
}

// NewRouter builds the relay's complete HTTP handler.
func NewRouter(h *RelayHandler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORS(middleware.CORSOptions{
		AllowedOrigin:  opts.AllowedOrigin,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))
	r.Use(preflight)

	h.RegisterRoutes(r)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	})

	return r
}

// preflight answers every OPTIONS request with an empty 200.
func preflight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
