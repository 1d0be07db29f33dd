package middleware

import (
	"net/http"

	"dap/internal/platform/logger"
	pnet "dap/internal/platform/net"
)

// ActorPort extracts the acting user id from a request
// an empty id with a nil error means the request is anonymous
type ActorPort interface {
	Actor(r *http.Request) (string, error)
}

// Actor puts the acting user id on the request and logger contexts
// anonymous requests and a nil port pass through, a port error is written as an envelope
func Actor(p ActorPort, write Writer) Middleware {
	return func(next http.Handler) http.Handler {
		if p == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := p.Actor(r)
			if err != nil {
				status, body := pnet.Failure(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			if id != "" {
				ctx := logger.With(pnet.WithActor(r.Context(), id), "actor_id", id)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}
