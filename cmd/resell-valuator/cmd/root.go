// Package cmd implements the CLI commands for resell-valuator.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "resell-valuator",
	Short: "Value used phones from a trained price model",
	Long: "resell-valuator predicts the resale price of used phones from a trained tree-ensemble model,\n" +
		"applies damage, storage and reference price adjustments, and serves single, batch and\n" +
		"bulk CSV valuations over HTTP or from the command line.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
