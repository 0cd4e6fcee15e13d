package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "medsched/docs"
)

// @title medsched API
// @version 1.0
// @description Physician availability, alternative slots and appointment booking across clinic locations.

// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:          "medsched",
		Short:        "Multi-location physician scheduling service",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
