package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func configCommand(f *flags) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	c.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := loadConfig(c, f)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(cfg.Redacted())
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}

			w := c.OutOrStdout()
			if cfg.File != "" {
				fmt.Fprintf(w, "# loaded from %s\n", cfg.File)
			} else {
				fmt.Fprintf(w, "# %s not found, showing defaults\n", f.configFile)
			}
			_, err = w.Write(out)
			return err
		},
	})

	return c
}
