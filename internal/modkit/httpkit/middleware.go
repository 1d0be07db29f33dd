package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "dap/internal/platform/net/http"
	"dap/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack, zero values pick the defaults
type StackOptions struct {
	CORSOrigins []string
	Slow        time.Duration
	Timeout     time.Duration
}

// CommonStack is the middleware every API route runs through, outermost first
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Slow <= 0 {
		o.Slow = 500 * time.Millisecond
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.Slow}),
		middleware.RecoverJSON(phttp.JSON),
		middleware.NoCache,
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes,
		middleware.Timeout(o.Timeout),
	}
}

// Actors resolves the acting user through p, failures render as JSON envelopes
func Actors(p middleware.ActorPort) func(http.Handler) http.Handler {
	return middleware.Actor(p, phttp.JSON)
}
