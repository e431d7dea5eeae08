package cli

import (
	"github.com/ksyq12/siteman/internal/config"
	"github.com/ksyq12/siteman/internal/reconcile"
	"github.com/spf13/cobra"
)

var (
	disableSubdomain string
	disableNoReload  bool
)

var disableCmd = &cobra.Command{
	Use:   "disable <domain>",
	Short: "Disable a site without removing it",
	Long: `Remove a site's enabled-store link, keeping its configuration file.

Disabling a site that is not enabled is a warned no-op.

Examples:
  siteman disable example.com
  siteman disable example.com --subdomain api`,
	Args: cobra.ExactArgs(1),
	RunE: runDisable,
}

func init() {
	disableCmd.Flags().StringVarP(&disableSubdomain, "subdomain", "s", "", "Subdomain to prepend to the domain")
	disableCmd.Flags().BoolVar(&disableNoReload, "no-reload", false, "Don't reload the daemon")

	rootCmd.AddCommand(disableCmd)
}

func runDisable(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	spec := config.NewSiteSpec(args[0], disableSubdomain)
	if err := spec.Validate(); err != nil {
		return err
	}
	full := spec.FullDomain()

	if dryRun {
		ops := []DryRunOperation{
			{Action: "remove_symlink", Target: a.Store.EnabledPath(full)},
		}
		return a.outputDryRun(&DryRunResult{
			Domain:     full,
			Operations: reloadOperations(ops, disableNoReload),
		})
	}
	if err := requireRoot(); err != nil {
		return err
	}

	res := a.reconciler(!disableNoReload).Apply(cmdContext(cmd), spec, reconcile.IntentDisable)
	return a.finish(res, "Site %s disabled", full)
}
