// Package nginx wraps the reverse-proxy daemon's external surface: binary
// and service probes, package-manager install, the built-in syntax
// validator, and reload. All calls go through the executor so tests can
// script daemon behavior.
package nginx

import (
	"context"
	"fmt"
	"strings"

	"github.com/ksyq12/siteman/internal/executor"
	"github.com/ksyq12/siteman/internal/logger"
)

// Daemon drives the nginx binary and its systemd unit.
type Daemon struct {
	exec executor.Runner
	log  *logger.Logger
}

// New creates a Daemon.
func New(exec executor.Runner, log *logger.Logger) *Daemon {
	return &Daemon{exec: exec, log: log}
}

// Installed reports whether the nginx binary is on PATH.
func (d *Daemon) Installed() bool {
	_, err := d.exec.LookPath("nginx")
	return err == nil
}

// Running reports whether the service manager considers nginx active.
func (d *Daemon) Running(ctx context.Context) bool {
	res, err := d.exec.Run(ctx, "systemctl", "is-active", "nginx")
	if err != nil {
		return false
	}
	return res.Ok() && strings.TrimSpace(res.Stdout) == "active"
}

// Install installs nginx through the OS package manager.
func (d *Daemon) Install(ctx context.Context) error {
	d.log.Infof("installing nginx")
	res, err := d.exec.Run(ctx, "apt-get", "install", "-y", "nginx")
	if err != nil {
		return fmt.Errorf("failed to run package manager: %w", err)
	}
	if !res.Ok() {
		return fmt.Errorf("nginx install failed: %s", res.Output())
	}
	return nil
}

// Start starts the nginx service.
func (d *Daemon) Start(ctx context.Context) error {
	d.log.Infof("starting nginx")
	res, err := d.exec.Run(ctx, "systemctl", "start", "nginx")
	if err != nil {
		return fmt.Errorf("failed to run service manager: %w", err)
	}
	if !res.Ok() {
		return fmt.Errorf("nginx start failed: %s", res.Output())
	}
	return nil
}

// Validate runs the daemon's own syntax check over the full configuration
// tree. The returned output is verbatim validator output, also populated
// on failure so callers can surface it.
func (d *Daemon) Validate(ctx context.Context) (string, error) {
	res, err := d.exec.Run(ctx, "nginx", "-t")
	if err != nil {
		return "", fmt.Errorf("failed to run nginx validator: %w", err)
	}
	out := res.Output()
	if !res.Ok() {
		return out, fmt.Errorf("nginx configuration test failed")
	}
	d.log.Debugf("nginx -t passed")
	return out, nil
}

// Reload reloads nginx, preferring the service manager and falling back to
// the binary's own signal handling.
func (d *Daemon) Reload(ctx context.Context) error {
	res, err := d.exec.Run(ctx, "systemctl", "reload", "nginx")
	if err == nil && res.Ok() {
		return nil
	}
	d.log.Debugf("systemctl reload failed, trying nginx -s reload")

	res, err = d.exec.Run(ctx, "nginx", "-s", "reload")
	if err != nil {
		return fmt.Errorf("failed to reload nginx: %w", err)
	}
	if !res.Ok() {
		return fmt.Errorf("failed to reload nginx: %s", res.Output())
	}
	return nil
}
