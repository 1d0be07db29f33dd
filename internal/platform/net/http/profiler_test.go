package http

import (
	stdhttp "net/http"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMountProfiler(t *testing.T) {
	t.Parallel()

	off := AdaptChi(chi.NewRouter())
	MountProfiler(off, "/debug", false)
	if got, _ := code(off.Mux(), stdhttp.MethodGet, "/debug/vars"); got != stdhttp.StatusNotFound {
		t.Fatalf("disabled profiler = %d", got)
	}

	on := AdaptChi(chi.NewRouter())
	MountProfiler(on, "debug/", true)
	if got, _ := code(on.Mux(), stdhttp.MethodGet, "/debug/vars"); got != stdhttp.StatusOK {
		t.Fatalf("expvar = %d", got)
	}
	if got, _ := code(on.Mux(), stdhttp.MethodGet, "/debug/pprof/"); got != stdhttp.StatusOK {
		t.Fatalf("pprof index = %d", got)
	}
}
