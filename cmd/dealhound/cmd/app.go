package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/donaldgifford/dealhound/internal/config"
	"github.com/donaldgifford/dealhound/internal/document"
	"github.com/donaldgifford/dealhound/internal/engine"
	"github.com/donaldgifford/dealhound/internal/store"
	"github.com/donaldgifford/dealhound/internal/tracing"
)

const (
	connectTimeout       = 30 * time.Second
	telemetryStopTimeout = 5 * time.Second
)

// app holds everything a run needs and the cleanup for it.
type app struct {
	session  *engine.Session
	postgres *store.PostgresSink
	log      *slog.Logger
	closers  []func(context.Context) error
}

// newApp wires tracing, sinks and the document source from cfg.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	a := &app{log: log}

	_, shutdown, err := tracing.Setup(ctx, tracing.Options{
		Endpoint: cfg.Tracing.OTLPEndpoint,
		Version:  Version,
	})
	if err != nil {
		return nil, fmt.Errorf("setting up tracing: %w", err)
	}
	a.closers = append(a.closers, shutdown)

	csvSink := store.NewCSVSink(cfg.Output.ResultsFile)
	sinks := []store.Named{{Name: "csv", Sink: csvSink}}
	log.Debug("recording observations in csv", "path", csvSink.Path())

	if cfg.Storage.PostgresDSN != "" {
		pg, err := openPostgres(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			a.close()
			return nil, err
		}
		a.postgres = pg
		a.closers = append(a.closers, func(context.Context) error {
			pg.Close()
			return nil
		})
		sinks = append(sinks, store.Named{Name: "postgres", Sink: pg})
		log.Info("recording observations in postgres")
	}

	a.session = engine.NewSession(
		newAcquirer(cfg, log),
		store.NewMultiSink(sinks...),
		engine.WithLogger(log),
		engine.WithDispatcher(engine.NewDispatcher(engine.WithDispatchLogger(log))),
	)

	return a, nil
}

// openPostgres connects and applies pending migrations.
func openPostgres(ctx context.Context, dsn string) (*store.PostgresSink, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pg, err := store.NewPostgresSink(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return pg, nil
}

// newAcquirer returns how a run obtains its document source.
func newAcquirer(cfg *config.Config, log *slog.Logger) document.Acquirer {
	if cfg.Browser.Renderer == config.RendererStatic {
		var opts []document.StaticOption
		if cfg.Browser.UserAgent != "" {
			opts = append(opts, document.WithStaticUserAgent(cfg.Browser.UserAgent))
		}
		return func(context.Context) (document.Source, error) {
			return document.NewStaticSource(opts...), nil
		}
	}

	return func(ctx context.Context) (document.Source, error) {
		src, err := document.NewBrowserSource(ctx, document.BrowserOptions{
			Headless:   cfg.Browser.Headless,
			UserAgent:  cfg.Browser.UserAgent,
			PageSettle: cfg.PageSettle(),
			Logger:     log,
		})
		if err != nil {
			return nil, err
		}
		return src, nil
	}
}

// close runs the cleanup functions in reverse order.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), telemetryStopTimeout)
	defer cancel()

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	if err := errors.Join(errs...); err != nil {
		a.log.Warn("shutting down", "error", err)
	}
}
