package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
)

const migrateTimeout = 60 * time.Second

func migrateCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL migrations for the observation log",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := loadConfig(c, f)
			if err != nil {
				return err
			}
			log := setupLogger(c, cfg, f)

			if cfg.Storage.PostgresDSN == "" {
				return errors.New("storage.postgres_dsn is not set")
			}

			ctx, cancel := context.WithTimeout(c.Context(), migrateTimeout)
			defer cancel()

			log.Info("running migrations")

			pg, err := openPostgres(ctx, cfg.Storage.PostgresDSN)
			if err != nil {
				return err
			}
			pg.Close()

			log.Info("migrations complete")
			return nil
		},
	}
}
