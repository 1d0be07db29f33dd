package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dap/internal/core/version"
	phttp "dap/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestMount_DisabledRegistersNothing(t *testing.T) {
	t.Parallel()

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), false)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestMount_ServesDocAndRedirect(t *testing.T) {
	t.Parallel()

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), true)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("doc.json status %d", rr.Code)
	}
	var doc struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Title string `json:"title"`
		} `json:"info"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc.json is not json: %v", err)
	}
	if doc.OpenAPI != "3.0.3" || doc.Info.Title != version.Service {
		t.Fatalf("doc = %+v", doc)
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	if rr.Code != http.StatusPermanentRedirect {
		t.Fatalf("redirect status %d", rr.Code)
	}
}
