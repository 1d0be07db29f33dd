package httpkit

import (
	"net/http"
	"strconv"
	"strings"

	"dap/internal/core/paging"
	perr "dap/internal/platform/errors"

	"github.com/go-chi/chi/v5"
)

// Param returns a trimmed path parameter
func Param(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

// QueryString returns a trimmed query value or nil when absent or blank
func QueryString(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}

// QueryInt parses an integer query value, nil when absent
func QueryInt(r *http.Request, key string) (*int, error) {
	v := QueryString(r, key)
	if v == nil {
		return nil, nil
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		return nil, perr.WithField(perr.InvalidArgf("%s must be an integer", key), key)
	}
	return &n, nil
}

// PageArgs reads first after last before into paging.Args
// range checks are left to the pager so every caller gets the same messages
func PageArgs(r *http.Request) (paging.Args, error) {
	first, err := QueryInt(r, "first")
	if err != nil {
		return paging.Args{}, err
	}
	last, err := QueryInt(r, "last")
	if err != nil {
		return paging.Args{}, err
	}
	return paging.Args{
		First:  first,
		After:  QueryString(r, "after"),
		Last:   last,
		Before: QueryString(r, "before"),
	}, nil
}
