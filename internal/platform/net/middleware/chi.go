// Package middleware wraps chi middlewares and adds the JSON aware ones the API stack needs
// callers never import chi or go-chi/cors directly
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Middleware is the standard net/http decorator
type Middleware = func(http.Handler) http.Handler

// Writer renders body as JSON with status, phttp.JSON satisfies it
type Writer = func(w http.ResponseWriter, status int, body any)

var (
	RequestID       Middleware = chimw.RequestID       // honours an inbound X-Request-Id
	RealIP          Middleware = chimw.RealIP          // trusts X-Forwarded-For, only behind a proxy
	NoCache         Middleware = chimw.NoCache
	RedirectSlashes Middleware = chimw.RedirectSlashes
	StripSlashes    Middleware = chimw.StripSlashes
)

// Timeout cancels the request context after d
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// Heartbeat answers GET path with 200 before routing
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// Compress negotiates gzip or deflate for the default content types
func Compress(level int) Middleware { return chimw.Compress(level) }

// CORSOptions narrows go-chi/cors to what the API configures
type CORSOptions struct {
	AllowedOrigins   []string
	AllowCredentials bool
	MaxAge           int
}

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	corsHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Request-Id", "X-Actor-ID"}
)

// CORS allows the API verbs and the request and actor id headers
// no origins means any origin
func CORS(o CORSOptions) Middleware {
	origins := o.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   corsMethods,
		AllowedHeaders:   corsHeaders,
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}
