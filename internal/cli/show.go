package cli

import (
	"github.com/ksyq12/siteman/internal/config"
	"github.com/ksyq12/siteman/internal/errors"
	"github.com/spf13/cobra"
)

var showSubdomain string

var showCmd = &cobra.Command{
	Use:   "show <domain>",
	Short: "Show a site's live configuration",
	Long: `Print the configuration file currently in the available store for a
site, along with its observed state.

Examples:
  siteman show example.com
  siteman show example.com --subdomain api
  siteman show example.com --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showSubdomain, "subdomain", "s", "", "Subdomain to prepend to the domain")

	rootCmd.AddCommand(showCmd)
}

type showResult struct {
	Domain      string `json:"domain"`
	Path        string `json:"path"`
	Enabled     bool   `json:"enabled"`
	CertPresent bool   `json:"cert_present"`
	Content     string `json:"content"`
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	spec := config.NewSiteSpec(args[0], showSubdomain)
	if err := spec.Validate(); err != nil {
		return err
	}
	full := spec.FullDomain()

	state := a.Probe.SiteState(full)
	if !state.Available {
		return errors.NotFound(full)
	}
	content, err := a.Store.ReadConfig(full)
	if err != nil {
		return err
	}

	result := showResult{
		Domain:      full,
		Path:        a.Store.AvailablePath(full),
		Enabled:     state.Enabled,
		CertPresent: state.CertPresent,
		Content:     content,
	}

	if jsonOutput {
		return a.Out.JSON(result)
	}

	a.Out.Info("%s (%s)", full, result.Path)
	for _, w := range state.Warnings {
		a.Out.Warn("%s", w)
	}
	a.Out.Print("%s", content)
	return nil
}
