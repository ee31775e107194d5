// Package cmd provides the command-line interface for the deploytag CLI tool.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deploytag",
	Short: "Deploytag records deployment environments on Azure DevOps work items",
	Long: `Deploytag is a pipeline CLI that discovers Azure DevOps work item references
(AB#123) from the latest commit message, pull request metadata supplied by the
pipeline, and the remote pull request behind a GitHub merge commit, then tags
each referenced work item with the environment it was deployed to.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
