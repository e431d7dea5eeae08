package cli

import (
	"github.com/ksyq12/siteman/internal/config"
	"github.com/ksyq12/siteman/internal/reconcile"
	"github.com/spf13/cobra"
)

var (
	enableSubdomain string
	enableNoReload  bool
)

var enableCmd = &cobra.Command{
	Use:   "enable <domain>",
	Short: "Enable an existing site",
	Long: `Link an available site into the enabled store, validate, and reload.

Enabling a site that is already enabled is a warned no-op. If the tree
check fails after linking, the link is removed again.

Examples:
  siteman enable example.com
  siteman enable example.com --subdomain api`,
	Args: cobra.ExactArgs(1),
	RunE: runEnable,
}

func init() {
	enableCmd.Flags().StringVarP(&enableSubdomain, "subdomain", "s", "", "Subdomain to prepend to the domain")
	enableCmd.Flags().BoolVar(&enableNoReload, "no-reload", false, "Don't reload the daemon")

	rootCmd.AddCommand(enableCmd)
}

func runEnable(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	spec := config.NewSiteSpec(args[0], enableSubdomain)
	if err := spec.Validate(); err != nil {
		return err
	}
	full := spec.FullDomain()

	if dryRun {
		ops := []DryRunOperation{
			{
				Action:  "create_symlink",
				Target:  a.Store.EnabledPath(full),
				Details: "link to " + a.Store.AvailablePath(full),
			},
		}
		return a.outputDryRun(&DryRunResult{
			Domain:     full,
			Operations: reloadOperations(ops, enableNoReload),
		})
	}
	if err := requireRoot(); err != nil {
		return err
	}

	res := a.reconciler(!enableNoReload).Apply(cmdContext(cmd), spec, reconcile.IntentEnable)
	return a.finish(res, "Site %s enabled", full)
}
