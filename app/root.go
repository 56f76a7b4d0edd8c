// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

// configPath is the directory holding main.toml and an optional .env file.
var configPath string //nolint:gochecknoglobals

var rootCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "oltech",
	Short: "OLTECH is a shared workspace for small teams",
	Long: `OLTECH is a shared workspace for small teams: groups joined by code,
projects, tasks, documents and live analytics for every member.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint:gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "directory of main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
