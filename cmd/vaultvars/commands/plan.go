package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opsforge/vaultvars/internal/config"
	"github.com/opsforge/vaultvars/internal/resolve"
)

func NewPlanCommand(cfg *config.Config) *cobra.Command {
	var (
		inventoryPath string
		groups        []string
		host          string
		hostVars      []string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the lookup sequence without reading the store",
		Long: `Print the store lookups each entity would trigger, in precedence order,
without contacting the secret store.

Each line shows the folder/name pair that would be read under the lookup
root (default secret/ansible). For hosts the derived connection type and
port default are shown as well.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			entities, err := buildEntities(cfg, inventoryPath, groups, host, hostVars)
			if err != nil {
				return err
			}

			root := cfg.Definition.Root
			if root == "" {
				root = "secret/ansible"
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ENTITY\tKIND\tCONNECTION\tLOOKUP")
			for _, entity := range entities {
				plan, err := resolve.PlanEntity(entity)
				if err != nil {
					return err
				}
				connection := "-"
				if plan.Kind == "host" {
					connection = plan.Connection
					if plan.HasPort {
						connection = fmt.Sprintf("%s:%d", plan.Connection, plan.Port)
					}
				}
				for _, key := range plan.Keys {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s/%s\n", plan.Entity, plan.Kind, connection, root, key)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&inventoryPath, "inventory", "i", "", "Inventory file (YAML or JSON)")
	cmd.Flags().StringArrayVar(&groups, "group", nil, "Group entity, repeatable, in precedence order")
	cmd.Flags().StringVar(&host, "host", "", "Host entity, resolved after all groups")
	cmd.Flags().StringArrayVar(&hostVars, "host-var", nil, "Pre-existing host var as key=value, repeatable")

	return cmd
}
