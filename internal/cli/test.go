package cli

import (
	"github.com/ksyq12/siteman/internal/config"
	"github.com/ksyq12/siteman/internal/reconcile"
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Validate the daemon configuration",
	Long: `Run the daemon's own syntax check over the full configuration tree and
print its output verbatim.

Examples:
  siteman test
  siteman test --json`,
	Args: cobra.NoArgs,
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	res := a.reconciler(false).Apply(cmdContext(cmd), config.SiteSpec{}, reconcile.IntentValidate)
	if jsonOutput {
		if err := a.Out.JSON(res); err != nil {
			return err
		}
		if !res.Success {
			return res.FirstError()
		}
		return nil
	}

	if res.ValidatorOutput != "" {
		a.Out.Print("%s", res.ValidatorOutput)
	}
	if !res.Success {
		return res.FirstError()
	}
	a.Out.Success("Configuration test passed")
	return nil
}
