// Package httpkit is what service http packages import for routing, handlers and request parsing
package httpkit

import (
	"net/http"

	phttp "dap/internal/platform/net/http"
)

type (
	Envelope = phttp.Envelope
	Response = phttp.Response
	Router   = phttp.Router
)

func Created(data any) Response { return phttp.Created(data) }

// Get mounts a handler that reads no body, the result is wrapped in a 200 envelope
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.JSONHandlerNoBody(h))
}

// Post is Get for POST, for action endpoints such as revert
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, phttp.JSONHandlerNoBody(h))
}

func Delete(r Router, path string, h func(*http.Request) (any, error)) {
	r.Delete(path, phttp.JSONHandlerNoBody(h))
}

// PostJSON mounts a handler fed a decoded and validated T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}

func PatchJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Patch(path, phttp.JSONHandler(h))
}

// MountAPIV1 scopes mount under /api/v1 with mw applied to every route in it
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/v1", func(sub Router) {
		sub.Use(mw...)
		mount(sub)
	})
}
