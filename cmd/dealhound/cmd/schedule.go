package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/dealhound/internal/api"
	"github.com/donaldgifford/dealhound/internal/api/handlers"
	"github.com/donaldgifford/dealhound/internal/config"
	"github.com/donaldgifford/dealhound/internal/engine"
)

func scheduleCommand(f *flags) *cobra.Command {
	var (
		every   time.Duration
		addr    string
		noServe bool
	)

	c := &cobra.Command{
		Use:   "schedule",
		Short: "Run the tracker repeatedly and serve run status",
		Long: "schedule runs the tracker immediately and then on a fixed interval.\n" +
			"The product list is re-read before every run. A status server exposes\n" +
			"/healthz, /readyz, /metrics and /api/v1/runs/latest.",
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(c, f)
			if err != nil {
				return err
			}
			if c.Flags().Changed("every") {
				if every <= 0 {
					return fmt.Errorf("--every must be positive (got %s)", every)
				}
				cfg.Schedule.Interval = every
			}
			if c.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			log := setupLogger(c, cfg, f)

			return runSchedule(ctx, cfg, f.productsFile, !noServe, log)
		},
	}

	c.Flags().DurationVar(&every, "every", 0, "interval between runs (default from config, 6h)")
	c.Flags().StringVar(&addr, "addr", "", "status server listen address (default from config, :8080)")
	c.Flags().BoolVar(&noServe, "no-server", false, "do not start the status server")

	return c
}

func runSchedule(
	ctx context.Context,
	cfg *config.Config,
	productsFile string,
	serve bool,
	log *slog.Logger,
) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	history := engine.NewRunHistory()
	run := scheduledRun(a.session, history, cfg, productsFile, log)

	sched, err := engine.NewScheduler(ctx, run, cfg.Schedule.Interval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	var serverErr chan error
	if serve {
		serverErr = make(chan error, 1)
		opts := api.Options{
			Addr:    cfg.Server.Addr,
			Version: Version,
			Logger:  log,
			History: history,
		}
		if a.postgres != nil {
			opts.Observations = a.postgres
			opts.Ready = map[string]handlers.Pinger{"postgres": a.postgres}
		}
		srv := api.NewServer(opts)
		go func() { serverErr <- srv.Serve(ctx) }()
	}

	// The first run starts right away; cron only fires after one interval.
	if err := run(ctx); err != nil {
		log.Error("initial run failed", "error", err)
	}

	sched.Start()
	log.Info("next run scheduled", "at", sched.Next(), "interval", cfg.Schedule.Interval)

	var srvErr error
	select {
	case <-ctx.Done():
		if serverErr != nil {
			srvErr = <-serverErr
		}
	case srvErr = <-serverErr:
	}

	<-sched.Stop().Done()
	log.Info("scheduler stopped")

	return srvErr
}

// scheduledRun reloads the product list, runs the session and records the
// summary for the status API.
func scheduledRun(
	session *engine.Session,
	history *engine.RunHistory,
	cfg *config.Config,
	productsFile string,
	log *slog.Logger,
) engine.RunFunc {
	return func(ctx context.Context) error {
		urls, err := config.LoadProducts(productsFile)
		if err != nil {
			return err
		}
		if len(urls) == 0 {
			log.Warn("no product URLs to track", "path", productsFile)
			return nil
		}

		summary, err := session.Run(ctx, urls, cfg)
		history.Record(summary)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("running tracker: %w", err)
		}
		return nil
	}
}
