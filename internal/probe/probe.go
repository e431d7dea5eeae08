// Package probe is the read-only view of the world: daemon status and
// per-site filesystem state. It never mutates anything and is always safe
// to call repeatedly.
package probe

import (
	"context"

	"github.com/ksyq12/siteman/internal/acme"
	"github.com/ksyq12/siteman/internal/nginx"
	"github.com/ksyq12/siteman/internal/store"
)

// Probe aggregates the daemon, store, and certificate observations.
type Probe struct {
	store  *store.Store
	daemon *nginx.Daemon
	certs  *acme.Provisioner
}

// New creates a Probe.
func New(s *store.Store, d *nginx.Daemon, c *acme.Provisioner) *Probe {
	return &Probe{store: s, daemon: d, certs: c}
}

// DaemonInstalled reports whether the daemon binary is present.
func (p *Probe) DaemonInstalled() bool {
	return p.daemon.Installed()
}

// DaemonRunning reports whether the service manager considers the daemon
// active.
func (p *Probe) DaemonRunning(ctx context.Context) bool {
	return p.daemon.Running(ctx)
}

// SiteState reads the full observed state for fullDomain, including
// certificate presence.
func (p *Probe) SiteState(fullDomain string) store.SiteState {
	state := p.store.State(fullDomain)
	state.CertPresent = p.certs.CertPresent(fullDomain)
	return state
}
