package main

import (
	"github.com/spf13/cobra"
)

var configDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "campus-api",
	Short:         "Campus Connect NZ backend",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "./config", "directory containing config.yaml")
}
