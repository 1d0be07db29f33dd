package httpkit

import (
	"net/http"
	"strings"

	perrs "dap/internal/platform/errors"
	pnet "dap/internal/platform/net"
)

// ActorHeader carries the acting user id on requests
const ActorHeader = "X-Actor-ID"

const maxActorLen = 64

// HeaderPort implements middleware.ActorPort by reading a request header
type HeaderPort struct {
	header string
}

// NewHeaderPort reads the actor from header, empty means ActorHeader
func NewHeaderPort(header string) *HeaderPort {
	if header == "" {
		header = ActorHeader
	}
	return &HeaderPort{header: header}
}

// Actor returns the trimmed header value, empty when the header is absent
func (p *HeaderPort) Actor(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(p.header))
	if len(id) > maxActorLen {
		return "", perrs.WithField(perrs.InvalidArgf("actor id too long"), p.header)
	}
	return id, nil
}

// Actor returns the acting user id from the request context, nil when anonymous
func Actor(r *http.Request) *string {
	return pnet.Actor(r.Context())
}
