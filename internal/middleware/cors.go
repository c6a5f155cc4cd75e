package middleware

import (
	"net/http"
	"strings"
)

// CORSOptions are the values sent in the Access-Control-Allow-* headers.
type CORSOptions struct {
	AllowedOrigin  string
	AllowedMethods []string
	AllowedHeaders []string
}

// CORS sets the configured headers on every response.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	origin := opts.AllowedOrigin
	if origin == "" {
		origin = "*"
	}
	methods := strings.Join(opts.AllowedMethods, ", ")
	headers := strings.Join(opts.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			if methods != "" {
				h.Set("Access-Control-Allow-Methods", methods)
			}
			if headers != "" {
				h.Set("Access-Control-Allow-Headers", headers)
			}
			next.ServeHTTP(w, r)
		})
	}
}
