package cli

import (
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system status and diagnose issues",
	Long: `Run diagnostic checks on the daemon, the ACME client, the site stores,
and every known site.

Checks:
  - nginx installation and service state
  - certbot installation
  - store directories and the registry file
  - per-site state, including broken enabled links and missing certificates

Examples:
  siteman doctor
  siteman doctor --json`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// SiteStatus represents the diagnostic state of a single site
type SiteStatus struct {
	Domain  string        `json:"domain"`
	Enabled bool          `json:"enabled"`
	Checks  []CheckResult `json:"checks"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	System []CheckResult `json:"system"`
	Stores []CheckResult `json:"stores"`
	Sites  []SiteStatus  `json:"sites"`
}

var nginxVersionPattern = regexp.MustCompile(`nginx/(\d+\.\d+\.\d+)`)

func runDoctor(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	report := &DoctorReport{
		System: a.checkSystem(cmd),
		Stores: a.checkStores(),
		Sites:  a.checkSites(),
	}

	if jsonOutput {
		return a.Out.JSON(report)
	}
	a.displayDoctorReport(report)
	return nil
}

func (a *app) checkSystem(cmd *cobra.Command) []CheckResult {
	results := []CheckResult{}

	if a.Probe.DaemonInstalled() {
		version := "unknown"
		if out, err := nginxVersion(a, cmd); err == nil {
			version = out
		}
		results = append(results, CheckResult{
			Status:  "success",
			Message: fmt.Sprintf("nginx installed (%s)", version),
		})

		if a.Probe.DaemonRunning(cmdContext(cmd)) {
			results = append(results, CheckResult{Status: "success", Message: "nginx running"})
		} else {
			results = append(results, CheckResult{Status: "warning", Message: "nginx not running"})
		}
	} else {
		results = append(results, CheckResult{Status: "error", Message: "nginx not installed"})
	}

	if a.Certs.ClientInstalled() {
		results = append(results, CheckResult{Status: "success", Message: "certbot installed"})
	} else {
		status := "warning"
		for _, spec := range a.Registry.Sites {
			if spec.SSL {
				status = "error"
				break
			}
		}
		results = append(results, CheckResult{Status: status, Message: "certbot not installed"})
	}

	return results
}

func nginxVersion(a *app, cmd *cobra.Command) (string, error) {
	// nginx prints its version on stderr.
	res, err := newRunner().Run(cmdContext(cmd), "nginx", "-v")
	if err != nil {
		return "", err
	}
	if matches := nginxVersionPattern.FindStringSubmatch(res.Output()); len(matches) >= 2 {
		return matches[1], nil
	}
	return "", fmt.Errorf("version not found in output")
}

func (a *app) checkStores() []CheckResult {
	results := []CheckResult{}

	for _, dir := range []string{a.Store.Available, a.Store.Enabled} {
		if _, err := os.Stat(dir); err == nil {
			results = append(results, CheckResult{
				Status:  "success",
				Message: fmt.Sprintf("store directory exists (%s)", dir),
			})
		} else {
			results = append(results, CheckResult{
				Status:  "warning",
				Message: fmt.Sprintf("store directory missing (%s), created on first use", dir),
			})
		}
	}

	if path, err := registryPath(); err == nil {
		if _, err := os.Stat(path); err == nil {
			results = append(results, CheckResult{
				Status:  "success",
				Message: fmt.Sprintf("registry exists (%s)", path),
			})
		} else {
			results = append(results, CheckResult{
				Status:  "warning",
				Message: "registry not created yet",
			})
		}
	}

	return results
}

func (a *app) checkSites() []SiteStatus {
	statuses := []SiteStatus{}

	for _, domain := range a.Registry.Domains() {
		spec, _ := a.Registry.Get(domain)
		state := a.Probe.SiteState(domain)

		status := SiteStatus{Domain: domain, Enabled: state.Enabled}
		allOK := true

		for _, w := range state.Warnings {
			status.Checks = append(status.Checks, CheckResult{Status: "warning", Message: w})
			allOK = false
		}
		if !state.Available {
			status.Checks = append(status.Checks, CheckResult{
				Status:  "error",
				Message: "config file missing from the available store",
			})
			allOK = false
		}
		if spec != nil && spec.SSL && !state.CertPresent {
			status.Checks = append(status.Checks, CheckResult{
				Status:  "error",
				Message: "certificate missing",
			})
			allOK = false
		}

		if allOK {
			stateText := "disabled"
			if state.Enabled {
				stateText = "enabled"
			}
			status.Checks = append(status.Checks, CheckResult{
				Status:  "success",
				Message: fmt.Sprintf("%s, config present", stateText),
			})
		}
		statuses = append(statuses, status)
	}

	// Stray configs in the store that the registry does not know about.
	stored, err := a.Store.List()
	if err != nil {
		return statuses
	}
	for _, domain := range stored {
		if _, known := a.Registry.Get(domain); known {
			continue
		}
		state := a.Probe.SiteState(domain)
		statuses = append(statuses, SiteStatus{
			Domain:  domain,
			Enabled: state.Enabled,
			Checks: []CheckResult{{
				Status:  "warning",
				Message: "present in the store but not in the registry",
			}},
		})
	}

	return statuses
}

func (a *app) displayDoctorReport(report *DoctorReport) {
	a.Out.Print("Checking system...")
	for _, check := range report.System {
		a.displayCheck(check)
	}
	a.Out.Print("")

	a.Out.Print("Checking stores...")
	for _, check := range report.Stores {
		a.displayCheck(check)
	}
	a.Out.Print("")

	if len(report.Sites) == 0 {
		a.Out.Print("No sites configured")
		return
	}
	a.Out.Print("Checking sites...")
	for _, site := range report.Sites {
		for _, check := range site.Checks {
			a.displayCheck(CheckResult{
				Status:  check.Status,
				Message: fmt.Sprintf("%s - %s", site.Domain, check.Message),
			})
		}
	}
}

func (a *app) displayCheck(check CheckResult) {
	switch check.Status {
	case "success":
		a.Out.Success("%s", check.Message)
	case "warning":
		a.Out.Warn("%s", check.Message)
	case "error":
		a.Out.Error("%s", check.Message)
	}
}
