package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/photomap/internal/photocmd"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photomap",
		Short: "Map where and when politicians were photographed",
		Long: `Photomap harvests image records of politicians from the Finna archive API,
geocodes each photo against a gazetteer of towns and dates it from its
description, and reports per-year party maps and collection statistics.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(photocmd.NewHarvestCmd())
	cmd.AddCommand(photocmd.NewReportCmd())
	cmd.AddCommand(photocmd.NewTownsCmd())
	cmd.AddCommand(photocmd.NewTermsCmd())

	return cmd
}
