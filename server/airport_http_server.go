package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	READ_TIMEOUT     = 10 * time.Second
	WRITE_TIMEOUT    = 60 * time.Second
	IDLE_TIMEOUT     = 120 * time.Second
	SHUTDOWN_TIMEOUT = 5 * time.Second
)

type AirportHttpServer struct {
	router *Router
	srv    *http.Server
}

func NewAirportHttpServer(router *Router, addr string) *AirportHttpServer {
	return &AirportHttpServer{
		router: router,
		srv: &http.Server{
			Addr:         addr,
			Handler:      router.Handler(),
			ReadTimeout:  READ_TIMEOUT,
			WriteTimeout: WRITE_TIMEOUT,
			IdleTimeout:  IDLE_TIMEOUT,
		},
	}
}

// Run registers the routes and serves until ctx is cancelled, then shuts the
// server down gracefully.
func (s *AirportHttpServer) Run(ctx context.Context) error {
	s.router.RegisterRoutes()

	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener. Routes must already be registered.
func (s *AirportHttpServer) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down the server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		slog.Info("server exiting")
		return nil
	})

	return g.Wait()
}
