package http

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"strconv"
	"sync/atomic"
	"time"

	"dap/internal/platform/config"
	"dap/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server owns the chi mux and the listener
type Server struct {
	mux   *chi.Mux
	srv   *stdhttp.Server
	grace time.Duration
	bound atomic.Value // string, set once listening
}

// NewServer reads PORT, READ_HEADER_TIMEOUT, IDLE_TIMEOUT and SHUTDOWN_GRACE from cfg
// PORT is a bare port ("4000") or a listen address ("127.0.0.1:0")
func NewServer(cfg config.Conf) *Server {
	m := chi.NewRouter()
	return &Server{
		mux: m,
		srv: &stdhttp.Server{
			Addr:              listenAddr(cfg.MayString("PORT", "4000")),
			Handler:           m,
			ReadHeaderTimeout: cfg.MayDuration("READ_HEADER_TIMEOUT", 10*time.Second),
			IdleTimeout:       cfg.MayDuration("IDLE_TIMEOUT", 2*time.Minute),
		},
		grace: cfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second),
	}
}

func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr is the bound address once Run is listening, the configured one before
func (s *Server) Addr() string {
	if a, ok := s.bound.Load().(string); ok {
		return a
	}
	return s.srv.Addr
}

// Run serves until ctx is done, then drains for up to the shutdown grace
// a clean shutdown returns nil
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.bound.Store(ln.Addr().String())

	log := logger.Named("http")
	log.Info().Str("addr", s.Addr()).Msg("http listening")

	done := make(chan error, 1)
	stop := context.AfterFunc(ctx, func() {
		sctx, cancel := context.WithTimeout(context.Background(), s.grace)
		defer cancel()
		done <- s.srv.Shutdown(sctx)
	})

	err = s.srv.Serve(ln)
	if !errors.Is(err, stdhttp.ErrServerClosed) {
		stop()
		return err
	}
	if err := <-done; err != nil {
		log.Error().Err(err).Msg("http shutdown")
		return err
	}
	return nil
}

func listenAddr(port string) string {
	if _, err := strconv.Atoi(port); err == nil {
		return ":" + port
	}
	return port
}
