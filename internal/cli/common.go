package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ksyq12/siteman/internal/acme"
	"github.com/ksyq12/siteman/internal/config"
	"github.com/ksyq12/siteman/internal/errors"
	"github.com/ksyq12/siteman/internal/executor"
	"github.com/ksyq12/siteman/internal/lock"
	"github.com/ksyq12/siteman/internal/logger"
	"github.com/ksyq12/siteman/internal/nginx"
	"github.com/ksyq12/siteman/internal/output"
	"github.com/ksyq12/siteman/internal/platform"
	"github.com/ksyq12/siteman/internal/probe"
	"github.com/ksyq12/siteman/internal/reconcile"
	"github.com/ksyq12/siteman/internal/store"
	"github.com/spf13/cobra"
)

// app bundles the components wired for one invocation.
type app struct {
	Store    *store.Store
	Daemon   *nginx.Daemon
	Certs    *acme.Provisioner
	Probe    *probe.Probe
	Registry *config.Registry
	Locks    *lock.Manager
	Out      *output.Printer
	Log      *logger.Logger
}

// Construction seams, replaced in tests.
var (
	newRunner = func() executor.Runner {
		return executor.NewSystemRunner()
	}
	newCertRunner = func() executor.Runner {
		return executor.NewSystemRunnerWithTimeout(acme.IssueTimeout)
	}
	newPrinter   = output.New
	registryPath = config.DefaultPath
	lockDir      = lock.DefaultDir
	euid         = os.Geteuid
)

// newApp wires the real components from the persistent flags. Store paths
// come from the flags when given, otherwise from platform detection.
func newApp() (*app, error) {
	log := logger.New(verbose)

	avail, enabled := sitesAvailable, sitesEnabled
	if avail == "" || enabled == "" {
		paths, err := platform.DetectPaths()
		if err != nil {
			return nil, err
		}
		if avail == "" {
			avail = paths.Available
		}
		if enabled == "" {
			enabled = paths.Enabled
		}
	}

	regPath, err := registryPath()
	if err != nil {
		return nil, err
	}
	reg, err := config.Load(regPath)
	if err != nil {
		return nil, err
	}

	run := newRunner()
	s := store.New(avail, enabled)
	daemon := nginx.New(run, log)
	certs := acme.New(newCertRunner(), log)

	return &app{
		Store:    s,
		Daemon:   daemon,
		Certs:    certs,
		Probe:    probe.New(s, daemon, certs),
		Registry: reg,
		Locks:    lock.NewManager(lockDir()),
		Out:      newPrinter(),
		Log:      log,
	}, nil
}

func (a *app) reconciler(reload bool) *reconcile.Reconciler {
	return reconcile.New(reconcile.Options{
		Store:  a.Store,
		Daemon: a.Daemon,
		Certs:  a.Certs,
		Locks:  a.Locks,
		Log:    a.Log,
		Reload: reload,
	})
}

// cmdContext returns the command's context, falling back to Background
// when the command was invoked outside cobra's Execute path.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// requireRoot refuses system-path mutations for unprivileged users. Custom
// store directories are assumed user-writable, so overriding both skips
// the check.
func requireRoot() error {
	if dryRun {
		return nil
	}
	if sitesAvailable != "" && sitesEnabled != "" {
		return nil
	}
	if euid() != 0 {
		return fmt.Errorf("this operation requires root privileges (try sudo)")
	}
	return nil
}

// finish surfaces a reconciliation result: warnings first, then either the
// structured failure or the success message. JSON mode emits the whole
// result object.
func (a *app) finish(res *reconcile.Result, successMsg string, args ...interface{}) error {
	if jsonOutput {
		if err := a.Out.JSON(res); err != nil {
			return err
		}
		if !res.Success {
			return res.FirstError()
		}
		return nil
	}

	for _, w := range res.Warnings {
		a.Out.Warn("%s", w)
	}
	if !res.Success {
		if detail := errors.Detail(res.FirstError()); detail != "" {
			a.Out.Print("%s", detail)
		}
		return res.FirstError()
	}
	a.Out.Success(successMsg, args...)
	return nil
}

// DryRunOperation describes one change a command would make.
type DryRunOperation struct {
	Action  string `json:"action"`
	Target  string `json:"target"`
	Details string `json:"details,omitempty"`
}

// DryRunResult is the full dry-run report for a command.
type DryRunResult struct {
	Domain        string            `json:"domain"`
	DryRun        bool              `json:"dry_run"`
	Operations    []DryRunOperation `json:"operations"`
	ConfigPreview string            `json:"config_preview,omitempty"`
}

func (a *app) outputDryRun(res *DryRunResult) error {
	res.DryRun = true
	if jsonOutput {
		return a.Out.JSON(res)
	}

	a.Out.Info("Dry run for %s, no changes will be made", res.Domain)
	for _, op := range res.Operations {
		if op.Details != "" {
			a.Out.Print("  %s %s (%s)", op.Action, op.Target, op.Details)
		} else {
			a.Out.Print("  %s %s", op.Action, op.Target)
		}
	}
	if res.ConfigPreview != "" {
		a.Out.Print("")
		a.Out.Print("%s", res.ConfigPreview)
	}
	return nil
}

// reloadOperations appends the shared validate and reload dry-run entries.
func reloadOperations(ops []DryRunOperation, noReload bool) []DryRunOperation {
	ops = append(ops, DryRunOperation{
		Action:  "test_config",
		Target:  "nginx",
		Details: "validate configuration syntax",
	})
	if !noReload {
		ops = append(ops, DryRunOperation{
			Action:  "reload_server",
			Target:  "nginx",
			Details: "apply configuration changes",
		})
	}
	return ops
}
