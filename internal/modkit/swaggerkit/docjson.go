// Package swaggerkit provides OpenAPI swagger UI integration for HTTP services
package swaggerkit

import (
	"encoding/json"
	"net/http"

	"dap/internal/core/version"
)

// docReader is a seam so tests can serve a different document
var docReader = func() string {
	b, _ := json.Marshal(map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   version.Service,
			"version": version.Info().Version,
		},
		"servers": []any{map[string]any{"url": "/api/v1"}},
		"paths":   map[string]any{},
	})
	return string(b)
}

// serveDocJSON serves the OpenAPI skeleton so the UI can load
// handler annotations are collected by the swag generator, not at runtime
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(docReader()))
	}
}
