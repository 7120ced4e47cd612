package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cfbdemic/allies/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "allies-configure",
		Short: "Configuration tool for the Allies auth service",
		Long:  "CLI tool for running migrations, generating secrets, and testing configured dependencies",
	}

	rootCmd.AddCommand(commands.NewMigrateCmd())
	rootCmd.AddCommand(commands.NewSecretCmd())
	rootCmd.AddCommand(commands.NewTestCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
