package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/opsforge/vaultvars/internal/cache"
	"github.com/opsforge/vaultvars/internal/config"
	vverrors "github.com/opsforge/vaultvars/internal/errors"
	"github.com/opsforge/vaultvars/internal/metrics"
	"github.com/opsforge/vaultvars/internal/resolve"
)

func NewResolveCommand(cfg *config.Config) *cobra.Command {
	var (
		inventoryPath string
		groups        []string
		host          string
		hostVars      []string
		output        string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve merged variables for an ordered entity list",
		Long: `Resolve variables for groups and hosts in precedence order.

The entity list comes from an inventory file (--inventory) or from repeated
--group flags plus an optional --host. Later entities override earlier ones,
and within a host the domain-suffix layers override each other root to leaf.

Examples:
  # Resolve a host against the default groups
  vaultvars resolve --group all --group webservers --host hosta.example.com

  # Resolve a whole inventory file and render env lines
  vaultvars resolve --inventory inventory.yaml --output env

  # Seed pre-existing host vars
  vaultvars resolve --host winbox --host-var ansible_port=5986`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			if cfg.Definition.Metrics {
				metrics.Init()
			}

			entities, err := buildEntities(cfg, inventoryPath, groups, host, hostVars)
			if err != nil {
				return err
			}

			st, err := buildStore(cfg)
			if err != nil {
				return err
			}

			ctx := context.Background()

			// Auth/connectivity is a precondition; never start resolving
			// against a store that cannot answer.
			if err := st.Check(ctx); err != nil {
				return err
			}

			lookupCache := cache.New(st, cfg.Definition.Root, cfg.Logger)
			resolver := resolve.New(lookupCache, cfg.Logger)

			merged, err := resolver.Resolve(ctx, entities)
			if err != nil {
				return err
			}

			return writeResult(cmd.OutOrStdout(), merged, output)
		},
	}

	cmd.Flags().StringVarP(&inventoryPath, "inventory", "i", "", "Inventory file (YAML or JSON)")
	cmd.Flags().StringArrayVar(&groups, "group", nil, "Group entity, repeatable, in precedence order")
	cmd.Flags().StringVar(&host, "host", "", "Host entity, resolved after all groups")
	cmd.Flags().StringArrayVar(&hostVars, "host-var", nil, "Pre-existing host var as key=value, repeatable")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json, yaml, or env")

	return cmd
}

// writeResult renders the merged mapping in the requested format.
func writeResult(w io.Writer, merged map[string]any, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(merged)

	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(merged)

	case "env":
		keys := make([]string, 0, len(merged))
		for k := range merged {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s=%v\n", strings.ToUpper(k), merged[k])
		}
		return nil

	default:
		return vverrors.UserError{
			Message:    fmt.Sprintf("Unknown output format: %s", format),
			Suggestion: "Use --output json, yaml, or env",
		}
	}
}
