package modkit

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"dap/internal/modkit/httpkit"
	phttp "dap/internal/platform/net/http"
	"dap/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

type needs struct{ Flag string }

func text(s string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, s) }
}

func get(h http.Handler, path string) (int, string, http.Header) {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr.Code, rr.Body.String(), rr.Header()
}

func TestBuild_DefaultsAndOverrides(t *testing.T) {
	t.Parallel()

	b := Build("catalog", "")
	if b.Name() != "catalog" || b.Prefix() != "" {
		t.Fatalf("defaults = %q %q", b.Name(), b.Prefix())
	}

	b = Build("changes", "/changesets", WithName("history"), WithPrefix(" history/ "))
	if b.Name() != "history" || b.Prefix() != "/history" {
		t.Fatalf("overrides = %q %q", b.Name(), b.Prefix())
	}

	testkit.MustPanic(t, func() { Build(" ", "/x") })
}

func TestNeedsOf(t *testing.T) {
	t.Parallel()

	b := Build("m", "", WithPorts(needs{Flag: "on"}))
	if got := NeedsOf[needs](b); got.Flag != "on" {
		t.Fatalf("NeedsOf = %+v", got)
	}
	if got := NeedsOf[needs](Build("m", "")); got != (needs{}) {
		t.Fatalf("missing needs = %+v", got)
	}
	if got := NeedsOf[int](b); got != 0 {
		t.Fatalf("mismatched type = %d", got)
	}
}

func TestMountRoutes_PrefixMiddlewareAndExtras(t *testing.T) {
	t.Parallel()

	scoped := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Module", "actors")
			next.ServeHTTP(w, r)
		})
	}

	b := Build("actors", "/actors",
		WithMiddlewares(scoped),
		WithRoutes(func(r httpkit.Router) { r.Get("/extra", text("extra")) }),
	)
	b.Routes(func(r httpkit.Router) { r.Get("/{id}", text("actor")) })

	r := phttp.AdaptChi(chi.NewRouter())
	r.Get("/other", text("other"))
	b.MountRoutes(r)

	cases := []struct {
		path, body, module string
	}{
		{"/actors/u1", "actor", "actors"},
		{"/actors/extra", "extra", "actors"},
		{"/other", "other", ""},
	}
	for _, tc := range cases {
		code, body, h := get(r.Mux(), tc.path)
		if code != http.StatusOK || body != tc.body || h.Get("X-Module") != tc.module {
			t.Fatalf("%s = %d %q module=%q", tc.path, code, body, h.Get("X-Module"))
		}
	}
}

func TestMountRoutes_NoPrefixGroups(t *testing.T) {
	t.Parallel()

	b := Build("catalog", "")
	b.Routes(func(r httpkit.Router) {
		r.Get("/products", text("products"))
		r.Get("/tasks", text("tasks"))
	})
	r := phttp.AdaptChi(chi.NewRouter())
	b.MountRoutes(r)

	for _, p := range []string{"/products", "/tasks"} {
		if code, body, _ := get(r.Mux(), p); code != http.StatusOK || body != p[1:] {
			t.Fatalf("%s = %d %q", p, code, body)
		}
	}
}
