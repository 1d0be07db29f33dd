package net_test

import (
	"errors"
	"net/http"
	"testing"

	perr "dap/internal/platform/errors"
	pnet "dap/internal/platform/net"
)

func TestSuccess(t *testing.T) {
	t.Parallel()

	env := pnet.Success(http.StatusCreated, map[string]string{"id": "p1"}, "req-1")
	if env.StatusCode != 201 || env.Status != "Created" || env.RequestID != "req-1" || env.Code != 0 || env.Error != "" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestFailure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
		code   perr.ErrorCode
		field  string
	}{
		{perr.NotFoundf("task t1 not found"), http.StatusNotFound, perr.ErrorCodeNotFound, ""},
		{perr.WithField(perr.InvalidArgf("limit out of range"), "first"), http.StatusUnprocessableEntity, perr.ErrorCodeInvalidArgument, "first"},
		{perr.Unavailablef("revert engine not bound"), http.StatusServiceUnavailable, perr.ErrorCodeUnavailable, ""},
		{errors.New("plain"), http.StatusInternalServerError, perr.ErrorCodeUnknown, ""},
	}
	for _, c := range cases {
		status, env := pnet.Failure(c.err, "req-9")
		if status != c.status || env.StatusCode != c.status || env.Code != c.code || env.Field != c.field {
			t.Fatalf("%v: status=%d env=%+v", c.err, status, env)
		}
		if env.Error == "" || env.Data != nil || env.RequestID != "req-9" {
			t.Fatalf("%v: envelope body %+v", c.err, env)
		}
	}

	if status, env := pnet.Failure(nil, ""); status != http.StatusOK || env.Status != "OK" {
		t.Fatalf("nil error: %d %+v", status, env)
	}
}
