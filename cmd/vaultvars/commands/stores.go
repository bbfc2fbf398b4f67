package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opsforge/vaultvars/internal/config"
	"github.com/opsforge/vaultvars/internal/store"
)

// storeDescriptions maps registry type names to a one-line summary of how
// lookup paths land in each backend.
var storeDescriptions = map[string]string{
	"vault":              "HashiCorp Vault, paths read verbatim (KV v1) or via the data endpoint (KV v2)",
	"aws.secretsmanager": "AWS Secrets Manager, path used verbatim as the secret name, JSON payload",
	"gcp.secretmanager":  "GCP Secret Manager, path slashes become underscores, JSON payload",
	"azure.keyvault":     "Azure Key Vault, path slashes become dashes, JSON payload",
	"static":             "In-memory store seeded from config, for tests and dry runs",
}

func NewStoresCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stores",
		Short: "List supported store backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := store.NewRegistry()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tDESCRIPTION")
			for _, name := range registry.SupportedTypes() {
				fmt.Fprintf(w, "%s\t%s\n", name, storeDescriptions[name])
			}
			return w.Flush()
		},
	}
}
