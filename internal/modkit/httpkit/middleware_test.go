package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "dap/internal/platform/errors"
)

func TestCommonStack(t *testing.T) {
	t.Parallel()

	r := newRouter()
	MountAPIV1(r, CommonStack(StackOptions{CORSOrigins: []string{"https://app.example"}}), func(api Router) {
		Get(api, "/ok", func(*http.Request) (any, error) { return "fine", nil })
		Get(api, "/panic", func(*http.Request) (any, error) { panic("boom") })
	})

	status, env := call(t, r, http.MethodGet, "/api/v1/ok/", "")
	if status != http.StatusOK || env.Data != "fine" {
		t.Fatalf("trailing slash = %d %+v", status, env)
	}
	if env.RequestID == "" {
		t.Fatal("request id missing from envelope")
	}

	status, env = call(t, r, http.MethodGet, "/api/v1/panic", "")
	if status != http.StatusInternalServerError || env.Code != perr.ErrorCodePanic {
		t.Fatalf("panic = %d %+v", status, env)
	}
}

func TestCommonStack_Defaults(t *testing.T) {
	t.Parallel()

	if got := len(CommonStack(StackOptions{})); got != 9 {
		t.Fatalf("stack size = %d", got)
	}
}

func TestActors(t *testing.T) {
	t.Parallel()

	r := newRouter()
	MountAPIV1(r, []func(http.Handler) http.Handler{Actors(NewHeaderPort(""))}, func(api Router) {
		Get(api, "/whoami", func(req *http.Request) (any, error) {
			if a := Actor(req); a != nil {
				return *a, nil
			}
			return "anonymous", nil
		})
	})

	do := func(actor string) (int, any) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
		if actor != "" {
			req.Header.Set(ActorHeader, actor)
		}
		rr := httptest.NewRecorder()
		r.Mux().ServeHTTP(rr, req)
		var env Envelope
		_ = json.Unmarshal(rr.Body.Bytes(), &env)
		return rr.Code, env.Data
	}
	if status, data := do(""); status != http.StatusOK || data != "anonymous" {
		t.Fatalf("anonymous = %d %v", status, data)
	}
	if status, data := do("u-1"); status != http.StatusOK || data != "u-1" {
		t.Fatalf("actor = %d %v", status, data)
	}
	if status, _ := do(strings.Repeat("x", maxActorLen+1)); status != http.StatusUnprocessableEntity {
		t.Fatalf("long actor = %d", status)
	}
}
