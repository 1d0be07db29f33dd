// Package http serves build info, readiness and uptime under /meta
package http

import (
	"context"
	"net/http"
	"time"

	"dap/internal/core/version"
	"dap/internal/modkit/httpkit"

	"golang.org/x/sync/errgroup"
)

// Check is one readiness probe, a nil Ping reports skipped
type Check struct {
	Name     string
	Required bool
	Ping     func(context.Context) error
}

type Deps struct {
	Service string
	Started time.Time
	Checks  []Check
	// Timeout bounds the whole readiness round, 0 means 2s
	Timeout time.Duration
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

func Register(r httpkit.Router, d Deps) {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	h := &handlers{deps: d, now: time.Now}
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/service", h.service)
}

// CheckResult is the outcome of one probe
type CheckResult struct {
	Name   string `json:"name"            example:"pg"`
	Status string `json:"status"          example:"ok" enums:"ok,fail,skipped"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// ReadyResponse is fail when a required probe failed and degraded when an optional one did not pass
type ReadyResponse struct {
	Status string        `json:"status" example:"ok" enums:"ok,degraded,fail"`
	Checks []CheckResult `json:"checks"`
}

type ServiceResponse struct {
	Name    string    `json:"name"           example:"dap-api"`
	Started time.Time `json:"started"        example:"2026-01-02T15:04:05Z"`
	Uptime  int64     `json:"uptime_seconds" example:"300"`
}

// @Summary Build information
// @Tags Meta
// @Produce json
// @Success 200 {object} httpkit.Envelope{data=version.BuildInfo}
// @Router /meta/version [get]
func (h *handlers) version(*http.Request) (any, error) { return version.Info(), nil }

// @Summary Readiness with per backend probes
// @Tags Meta
// @Produce json
// @Success 200 {object} httpkit.Envelope{data=ReadyResponse}
// @Failure 503 {object} httpkit.Envelope{data=ReadyResponse} "a required backend is down"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.deps.Timeout)
	defer cancel()

	out := ReadyResponse{Status: "ok", Checks: make([]CheckResult, len(h.deps.Checks))}
	var g errgroup.Group
	for i, c := range h.deps.Checks {
		out.Checks[i] = CheckResult{Name: c.Name, Status: "skipped"}
		if c.Ping == nil {
			continue
		}
		g.Go(func() error {
			if err := c.Ping(ctx); err != nil {
				out.Checks[i] = CheckResult{Name: c.Name, Status: "fail", Error: err.Error()}
				return nil
			}
			out.Checks[i].Status = "ok"
			return nil
		})
	}
	_ = g.Wait()

	for i, res := range out.Checks {
		switch {
		case res.Status == "fail" && h.deps.Checks[i].Required:
			out.Status = "fail"
		case res.Status != "ok" && out.Status == "ok":
			out.Status = "degraded"
		}
	}
	if out.Status == "fail" {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

// @Summary Service name and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} httpkit.Envelope{data=ServiceResponse}
// @Router /meta/service [get]
func (h *handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.Service,
		Started: h.deps.Started.UTC(),
		Uptime:  int64(h.now().Sub(h.deps.Started) / time.Second),
	}, nil
}
