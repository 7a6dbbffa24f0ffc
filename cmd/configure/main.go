package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cadencehq/cadence/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "cadence-configure",
		Short: "Configuration tool for the Cadence API",
		Long:  "CLI tool for managing rate limits and the badge catalog",
	}

	rootCmd.AddCommand(commands.NewRatelimitCmd())
	rootCmd.AddCommand(commands.NewBadgesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
