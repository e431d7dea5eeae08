package cli

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sites and their state",
	Long: `List all known sites with their observed state.

Sites come from the registry plus anything found in the available store;
state columns are read fresh from the filesystem.

Examples:
  siteman list
  siteman ls
  siteman list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

type siteListItem struct {
	Domain      string   `json:"domain"`
	Port        int      `json:"port,omitempty"`
	SSL         bool     `json:"ssl"`
	Available   bool     `json:"available"`
	Enabled     bool     `json:"enabled"`
	CertPresent bool     `json:"cert_present"`
	Warnings    []string `json:"warnings,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	domains := map[string]bool{}
	for _, d := range a.Registry.Domains() {
		domains[d] = true
	}
	stored, err := a.Store.List()
	if err != nil {
		a.Out.Warn("Could not read the available store: %v", err)
	}
	for _, d := range stored {
		domains[d] = true
	}

	items := make([]siteListItem, 0, len(domains))
	for d := range domains {
		state := a.Probe.SiteState(d)
		item := siteListItem{
			Domain:      d,
			Available:   state.Available,
			Enabled:     state.Enabled,
			CertPresent: state.CertPresent,
			Warnings:    state.Warnings,
		}
		if spec, ok := a.Registry.Get(d); ok {
			item.Port = spec.Port
			item.SSL = spec.SSL
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Domain < items[j].Domain
	})

	if jsonOutput {
		return a.Out.JSON(items)
	}
	if len(items) == 0 {
		a.Out.Info("No sites configured")
		return nil
	}

	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}

	headers := []string{"DOMAIN", "PORT", "SSL", "AVAILABLE", "ENABLED", "CERT"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		port := "-"
		if item.Port != 0 {
			port = strconv.Itoa(item.Port)
		}
		rows = append(rows, []string{
			item.Domain,
			port,
			yesNo(item.SSL),
			yesNo(item.Available),
			yesNo(item.Enabled),
			yesNo(item.CertPresent),
		})
	}
	a.Out.Table(headers, rows)

	for _, item := range items {
		for _, w := range item.Warnings {
			a.Out.Warn("%s", w)
		}
	}
	return nil
}
