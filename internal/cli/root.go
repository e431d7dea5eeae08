package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	jsonOutput     bool
	verbose        bool
	dryRun         bool
	sitesAvailable string
	sitesEnabled   string
	version        = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "siteman",
	Short: "Reverse-proxied site lifecycle manager",
	Long: `siteman turns a declarative site specification into a generated nginx
virtual-host configuration, manages its enabled state against the live
daemon, and provisions TLS certificates through certbot.

Every change is validated with nginx -t before it goes live; a failing
candidate never replaces a working configuration.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without making changes")
	rootCmd.PersistentFlags().StringVar(&sitesAvailable, "sites-available", "", "Override the sites-available directory")
	rootCmd.PersistentFlags().StringVar(&sitesEnabled, "sites-enabled", "", "Override the sites-enabled directory")
}
