package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cadencehq/cadence/internal/achievement"
)

// NewBadgesCmd creates the badge catalog command with show and check
// subcommands.
func NewBadgesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "badges",
		Short: "Inspect the badge catalog",
		Long:  "Show the active badge catalog or validate a catalog file before deploying it.",
	}
	cmd.AddCommand(newBadgesShowCmd())
	cmd.AddCommand(newBadgesCheckCmd())
	return cmd
}

func newBadgesShowCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the badge catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := achievement.DefaultCatalog()
			if path != "" {
				loaded, err := achievement.LoadCatalog(path)
				if err != nil {
					return fmt.Errorf("load catalog: %w", err)
				}
				catalog = loaded
			}

			fmt.Println("Badge catalog:")
			for _, badge := range catalog {
				fmt.Printf("  %4d days  %-20s (%s)\n", badge.ThresholdDays, badge.Label, badge.Icon)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "Catalog YAML file (defaults to the built-in catalog)")
	return cmd
}

func newBadgesCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a badge catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := achievement.LoadCatalog(args[0])
			if err != nil {
				return fmt.Errorf("catalog invalid: %w", err)
			}
			fmt.Printf("Catalog valid: %d badges, thresholds %d..%d days\n",
				len(catalog),
				catalog[0].ThresholdDays,
				catalog[len(catalog)-1].ThresholdDays)
			return nil
		},
	}
}
