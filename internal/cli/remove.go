package cli

import (
	"github.com/ksyq12/siteman/internal/config"
	"github.com/ksyq12/siteman/internal/reconcile"
	"github.com/spf13/cobra"
)

var (
	removeSubdomain string
	removeNoReload  bool
)

var removeCmd = &cobra.Command{
	Use:     "remove <domain>",
	Aliases: []string{"rm"},
	Short:   "Remove a site",
	Long: `Disable a site and delete its configuration file.

Removing a site that is only partially present (config without link, or
neither) is not an error; what exists is cleaned up.

Examples:
  siteman remove example.com
  siteman remove example.com --subdomain api`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().StringVarP(&removeSubdomain, "subdomain", "s", "", "Subdomain to prepend to the domain")
	removeCmd.Flags().BoolVar(&removeNoReload, "no-reload", false, "Don't reload the daemon")

	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	spec := config.NewSiteSpec(args[0], removeSubdomain)
	if err := spec.Validate(); err != nil {
		return err
	}
	full := spec.FullDomain()

	if dryRun {
		ops := []DryRunOperation{
			{Action: "remove_symlink", Target: a.Store.EnabledPath(full)},
			{Action: "remove_file", Target: a.Store.AvailablePath(full)},
		}
		return a.outputDryRun(&DryRunResult{
			Domain:     full,
			Operations: reloadOperations(ops, removeNoReload),
		})
	}
	if err := requireRoot(); err != nil {
		return err
	}

	res := a.reconciler(!removeNoReload).Apply(cmdContext(cmd), spec, reconcile.IntentRemove)
	if res.Success {
		a.Registry.Delete(full)
		if err := a.Registry.Save(); err != nil {
			a.Out.Warn("Site removed but registry save failed: %v", err)
		}
	}
	return a.finish(res, "Site %s removed", full)
}
