package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "prediction-tracker",
	Short: "Daily stock-index prediction tracking service",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
