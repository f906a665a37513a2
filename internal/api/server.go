// Package api assembles the status server used in schedule mode.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/dealhound/internal/api/handlers"
	mw "github.com/donaldgifford/dealhound/internal/api/middleware"
	"github.com/donaldgifford/dealhound/internal/store"
)

const shutdownTimeout = 10 * time.Second

// Options configures the status server.
type Options struct {
	Addr    string
	Version string
	Logger  *slog.Logger

	// History serves /api/v1/runs/latest.
	History handlers.LatestRunProvider

	// Observations serves /api/v1/observations. Nil disables the route.
	Observations store.Reader

	// Ready lists dependencies checked by /readyz.
	Ready map[string]handlers.Pinger
}

// Server is the echo status server.
type Server struct {
	echo *echo.Echo
	addr string
	log  *slog.Logger
}

// NewServer builds the echo instance and registers every route.
func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(mw.Recovery(log))
	e.Use(mw.RequestLog(log))
	e.Use(mw.Metrics())

	health := handlers.NewHealthHandler(opts.Ready)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	humaAPI := humaecho.New(e, huma.DefaultConfig("DealHound", opts.Version))
	if opts.History != nil {
		handlers.RegisterRunRoutes(humaAPI, handlers.NewRunsHandler(opts.History))
	}
	if opts.Observations != nil {
		handlers.RegisterObservationRoutes(humaAPI, handlers.NewObservationsHandler(opts.Observations))
	}

	return &Server{echo: e, addr: opts.Addr, log: log}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Serve listens on the configured address until ctx is canceled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	s.echo.Listener = ln
	s.log.Info("starting status server", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("status server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down status server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down status server: %w", err)
	}

	s.log.Info("status server stopped")
	return nil
}
