// Package cmd implements the dealhound CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/dealhound/internal/config"
	"github.com/donaldgifford/dealhound/pkg/logger"
)

// flags holds the persistent flag values shared by every command.
type flags struct {
	configFile   string
	productsFile string
	envFile      string
	renderer     string
	headless     bool
}

// NewRootCmd builds the command tree. Running the root command performs a
// single pass over the product list.
func NewRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "dealhound",
		Short: "Track product prices and alert on drops",
		Long: "dealhound visits product pages, records price and availability,\n" +
			"and sends an email or Discord alert when a price falls below the\n" +
			"configured threshold.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadDotEnv(f.envFile)
		},
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runOnce(ctx, c, f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "config.json", "config file path (JSON or YAML)")
	pf.StringVar(&f.productsFile, "products", "products.txt", "file with one product URL per line")
	pf.StringVar(&f.envFile, "env-file", ".env", "dotenv file with credentials")
	pf.StringVar(&f.renderer, "renderer", "", "page renderer override (chrome, static)")
	pf.BoolVar(&f.headless, "headless", false, "run Chrome without a window")

	root.AddCommand(scheduleCommand(f))
	root.AddCommand(configCommand(f))
	root.AddCommand(migrateCommand(f))
	root.AddCommand(versionCommand())

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// loadDotEnv loads path into the environment. A missing file is fine;
// variables already set are never overwritten.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(c *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if c.Flags().Changed("headless") {
		cfg.Browser.Headless = f.headless
	}
	if f.renderer != "" {
		switch f.renderer {
		case config.RendererChrome, config.RendererStatic:
			cfg.Browser.Renderer = f.renderer
		default:
			return nil, fmt.Errorf("unknown renderer %q (want chrome or static)", f.renderer)
		}
	}

	return cfg, nil
}

// setupLogger installs the process logger and reports a missing config file.
func setupLogger(c *cobra.Command, cfg *config.Config, f *flags) *slog.Logger {
	log := logger.Install(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: c.ErrOrStderr(),
	})
	if cfg.File == "" {
		log.Warn("config file not found, using defaults", "path", f.configFile)
	}
	return log
}

func runOnce(ctx context.Context, c *cobra.Command, f *flags) error {
	cfg, err := loadConfig(c, f)
	if err != nil {
		return err
	}
	log := setupLogger(c, cfg, f)

	urls, err := config.LoadProducts(f.productsFile)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		log.Warn("no product URLs to track", "path", f.productsFile)
		return nil
	}

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	summary, err := a.session.Run(ctx, urls, cfg)
	if err != nil {
		return fmt.Errorf("running tracker: %w", err)
	}

	fmt.Fprintf(c.OutOrStdout(),
		"run %s: %d visited, %d failed, %d skipped, %d alerts\n",
		summary.RunID, summary.Succeeded, summary.Failed, summary.Skipped, summary.Alerts,
	)
	return nil
}
