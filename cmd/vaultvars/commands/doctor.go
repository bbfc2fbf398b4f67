package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/opsforge/vaultvars/internal/config"
	"github.com/opsforge/vaultvars/internal/inventory"
)

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and store connectivity",
		Long: `Validate the configuration file, construct the configured store backend,
and verify it answers a connectivity check. Exits non-zero on the first
failure so the command can gate CI pipelines.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			if cfg.Path != "" {
				if _, err := os.Stat(cfg.Path); err == nil {
					cfg.Logger.Info("Configuration file %s is valid", cfg.Path)
				} else {
					cfg.Logger.Warn("No configuration file at %s, using defaults", cfg.Path)
				}
			}

			if cfg.Definition.Inventory != "" {
				if _, err := inventory.Load(cfg.Definition.Inventory); err != nil {
					return err
				}
				cfg.Logger.Info("Inventory file %s is valid", cfg.Definition.Inventory)
			}

			st, err := buildStore(cfg)
			if err != nil {
				return err
			}
			cfg.Logger.Info("Store backend: %s", st.Name())

			if err := st.Check(context.Background()); err != nil {
				return err
			}
			cfg.Logger.Info("Store connectivity check passed")

			cmd.Println("All checks passed")
			return nil
		},
	}
}
