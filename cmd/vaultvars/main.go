package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/opsforge/vaultvars/cmd/vaultvars/commands"
	"github.com/opsforge/vaultvars/internal/config"
	"github.com/opsforge/vaultvars/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Wipe any memguard-protected token material on exit
	defer memguard.Purge()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		memguard.Purge()
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile     string
		noColor        bool
		debug          bool
		nonInteractive bool
	)

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "vaultvars",
		Short: "Resolve inventory variables from a hierarchical secret store",
		Long: `vaultvars resolves configuration and credential variables for inventory
entities (groups and hosts) by reading a hierarchical secret store and
merging the layers in precedence order:

    groups → {connection}/domains (root to leaf) → {connection}/hosts

Later layers override earlier ones. HashiCorp Vault is the primary store
backend; AWS Secrets Manager, GCP Secret Manager, and Azure Key Vault are
supported through the same path scheme.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Path = configFile
			cfg.Logger = logging.New(debug, noColor)
			cfg.NonInteractive = nonInteractive
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Non-interactive mode")

	rootCmd.AddCommand(
		commands.NewResolveCommand(cfg),
		commands.NewPlanCommand(cfg),
		commands.NewDoctorCommand(cfg),
		commands.NewLoginCommand(cfg),
		commands.NewStoresCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
