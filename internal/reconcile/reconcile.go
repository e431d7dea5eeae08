// Package reconcile drives a site from its observed state to the state a
// SiteSpec declares.
//
// The reconciler owns the transition ordering: bootstrap the daemon,
// render, stage, validate against the full configuration tree, commit
// atomically, and reload only on success. Every transition ends in either
// a reload or an explicit no-mutation outcome; there is no path that
// leaves a known-broken configuration live.
package reconcile

import (
	"context"

	"github.com/ksyq12/siteman/internal/acme"
	"github.com/ksyq12/siteman/internal/config"
	"github.com/ksyq12/siteman/internal/errors"
	"github.com/ksyq12/siteman/internal/lock"
	"github.com/ksyq12/siteman/internal/logger"
	"github.com/ksyq12/siteman/internal/nginx"
	"github.com/ksyq12/siteman/internal/render"
	"github.com/ksyq12/siteman/internal/steps"
	"github.com/ksyq12/siteman/internal/store"
)

// Intent names the operation the caller wants applied.
type Intent string

const (
	IntentCreate   Intent = "create"
	IntentRemove   Intent = "remove"
	IntentEnable   Intent = "enable"
	IntentDisable  Intent = "disable"
	IntentValidate Intent = "validate"
)

// Mutating reports whether the intent changes filesystem or daemon state
// and therefore requires the per-site lock.
func (i Intent) Mutating() bool {
	return i != IntentValidate
}

// Options wires a Reconciler's collaborators.
type Options struct {
	Store  *store.Store
	Daemon *nginx.Daemon
	Certs  *acme.Provisioner
	Locks  *lock.Manager
	Log    *logger.Logger

	// Reload controls whether the daemon is reloaded after successful
	// mutations. Disabled by --no-reload.
	Reload bool
}

// Reconciler applies intents to sites.
type Reconciler struct {
	store  *store.Store
	daemon *nginx.Daemon
	certs  *acme.Provisioner
	locks  *lock.Manager
	log    *logger.Logger
	reload bool
}

// New creates a Reconciler.
func New(o Options) *Reconciler {
	return &Reconciler{
		store:  o.Store,
		daemon: o.Daemon,
		certs:  o.Certs,
		locks:  o.Locks,
		log:    o.Log,
		reload: o.Reload,
	}
}

// Apply runs one intent against one site and returns the structured
// outcome. It never panics for control flow.
func (r *Reconciler) Apply(ctx context.Context, spec config.SiteSpec, intent Intent) *Result {
	if intent == IntentValidate {
		return r.validateOnly(ctx)
	}

	spec = spec.Normalized()
	full := spec.FullDomain()
	res := &Result{Domain: full, ConfigPath: r.store.AvailablePath(full)}

	if err := spec.Validate(); err != nil {
		return res.fail(errors.Wrap(errors.CodeInternal, "invalid site spec", err))
	}

	release, err := r.locks.Acquire(ctx, full)
	if err != nil {
		return res.fail(errors.Locked(full))
	}
	defer release()

	if err := r.bootstrap(ctx); err != nil {
		return res.fail(err)
	}

	switch intent {
	case IntentCreate:
		r.create(ctx, spec, res)
	case IntentEnable:
		r.enable(ctx, full, res)
	case IntentDisable:
		r.disable(ctx, full, res)
	case IntentRemove:
		r.remove(ctx, full, res)
	default:
		return res.fail(errors.Wrap(errors.CodeInternal, "unknown intent "+string(intent), nil))
	}
	return res
}

// bootstrap ensures the daemon is installed and running. Failure after one
// attempt is fatal for the whole operation.
func (r *Reconciler) bootstrap(ctx context.Context) error {
	outcomes := steps.Run(ctx, r.log, []steps.Step{
		{
			Name:  "install-daemon",
			Check: func(ctx context.Context) bool { return r.daemon.Installed() },
			Run:   r.daemon.Install,
		},
		{
			Name:  "start-daemon",
			Check: r.daemon.Running,
			Run:   r.daemon.Start,
		},
	})
	if err := steps.FirstError(outcomes); err != nil {
		return errors.Prerequisite("reverse proxy daemon unavailable", err)
	}
	return nil
}

// create renders the spec and commits it through the validation gate. When
// the spec wants TLS but no certificate exists yet, the site first goes
// live over HTTP so the ACME challenge can be served, then issuance runs
// and the HTTPS config is committed. Issuance failure leaves the site
// HTTP-only with a warning.
func (r *Reconciler) create(ctx context.Context, spec config.SiteSpec, res *Result) {
	full := spec.FullDomain()

	needIssue := spec.SSL && !r.certs.CertPresent(full)
	effective := spec
	if needIssue {
		effective.SSL = false
		effective = effective.Normalized()
	}

	content, err := render.Render(effective)
	if err != nil {
		res.fail(errors.Wrap(errors.CodeInternal, "failed to render config", err))
		return
	}
	if err := r.commitConfig(ctx, full, content, res); err != nil {
		res.fail(err)
		return
	}
	res.Changed = true
	res.Success = true

	if needIssue {
		r.attachTLS(ctx, spec, res)
	}
}

// attachTLS issues a certificate and upgrades the live config to HTTPS.
// Every failure here degrades to a warning: the HTTP config stays live.
func (r *Reconciler) attachTLS(ctx context.Context, spec config.SiteSpec, res *Result) {
	full := spec.FullDomain()

	if err := r.certs.EnsureClient(ctx); err != nil {
		res.warnf("certificate issuance skipped, site remains HTTP-only: %v", err)
		return
	}
	if _, err := r.certs.Issue(ctx, full); err != nil {
		res.warnf("certificate issuance failed, site remains HTTP-only: %v", err)
		return
	}
	if err := r.certs.EnsureRenewalJob(ctx); err != nil {
		res.warnf("certificate issued but renewal job not installed: %v", err)
	}

	content, err := render.Render(spec)
	if err != nil {
		res.warnf("certificate issued but HTTPS config rendering failed: %v", err)
		return
	}
	if err := r.commitConfig(ctx, full, content, res); err != nil {
		res.warnf("certificate issued but HTTPS config rejected, site remains HTTP-only: %v", err)
		return
	}
	r.log.Infof("site %s now served over HTTPS", full)
}

// commitConfig performs the atomic write path: stage the candidate in the
// available store, expose it to the validator through the enabled link,
// validate the full tree, then rename over the target and reload. On
// validation failure the staged file is discarded and the previous link
// restored; the previously-live config file is never touched.
func (r *Reconciler) commitConfig(ctx context.Context, full, content string, res *Result) error {
	staged, err := r.store.Stage(full, content)
	if err != nil {
		return errors.Command("failed to stage config", "", err)
	}

	prev, existed, err := r.store.PointEnabled(full, staged)
	if err != nil {
		r.store.Discard(staged)
		return errors.Command("failed to point enabled link at staged config", "", err)
	}

	out, verr := r.daemon.Validate(ctx)
	res.ValidatorOutput = out
	if verr != nil {
		if rerr := r.store.RestoreEnabled(full, prev, existed); rerr != nil {
			res.warnf("failed to restore enabled link after validation failure: %v", rerr)
		}
		r.store.Discard(staged)
		return errors.Validation(full, out)
	}

	if err := r.store.Commit(full, staged); err != nil {
		if rerr := r.store.RestoreEnabled(full, prev, existed); rerr != nil {
			res.warnf("failed to restore enabled link: %v", rerr)
		}
		r.store.Discard(staged)
		return errors.Command("failed to commit config", "", err)
	}
	if _, err := r.store.Enable(full); err != nil {
		return errors.Command("failed to enable site", "", err)
	}

	return r.reloadDaemon(ctx)
}

func (r *Reconciler) enable(ctx context.Context, full string, res *Result) {
	state := r.store.State(full)
	for _, w := range state.Warnings {
		res.warnf("%s", w)
	}
	if !state.Available {
		res.fail(errors.NotFound(full))
		return
	}
	if state.Enabled {
		res.warnf("site %s is already enabled", full)
		res.Success = true
		return
	}

	if _, err := r.store.Enable(full); err != nil {
		res.fail(errors.Command("failed to enable site", "", err))
		return
	}
	res.Changed = true

	out, verr := r.daemon.Validate(ctx)
	res.ValidatorOutput = out
	if verr != nil {
		// Roll back so the broken config is not served on next reload.
		if _, derr := r.store.Disable(full); derr != nil {
			res.warnf("rollback disable failed: %v", derr)
		}
		res.Changed = false
		res.fail(errors.Validation(full, out))
		return
	}
	if err := r.reloadDaemon(ctx); err != nil {
		res.fail(err)
		return
	}
	res.Success = true
}

func (r *Reconciler) disable(ctx context.Context, full string, res *Result) {
	changed, err := r.store.Disable(full)
	if err != nil {
		res.fail(errors.Command("failed to disable site", "", err))
		return
	}
	if !changed {
		res.warnf("site %s is not enabled", full)
		res.Success = true
		return
	}
	res.Changed = true

	// The site is already off; a failing tree check here is someone
	// else's config, so report and continue.
	out, verr := r.daemon.Validate(ctx)
	res.ValidatorOutput = out
	if verr != nil {
		res.warnf("post-disable validation failed: %s", out)
	}
	if err := r.reloadDaemon(ctx); err != nil {
		res.fail(err)
		return
	}
	res.Success = true
}

func (r *Reconciler) remove(ctx context.Context, full string, res *Result) {
	disabled, err := r.store.Disable(full)
	if err != nil {
		res.fail(errors.Command("failed to disable site", "", err))
		return
	}

	removed, err := r.store.Remove(full)
	if err != nil {
		res.fail(errors.Command("failed to remove config", "", err))
		return
	}
	if !removed && !disabled {
		res.warnf("site %s was not present", full)
		res.Success = true
		return
	}
	res.Changed = true

	out, verr := r.daemon.Validate(ctx)
	res.ValidatorOutput = out
	if verr != nil {
		res.warnf("post-removal validation failed: %s", out)
	}
	if err := r.reloadDaemon(ctx); err != nil {
		res.fail(err)
		return
	}
	res.Success = true
}

func (r *Reconciler) validateOnly(ctx context.Context) *Result {
	res := &Result{}
	if !r.daemon.Installed() {
		return res.fail(errors.Prerequisite("reverse proxy daemon is not installed", nil))
	}
	out, err := r.daemon.Validate(ctx)
	res.ValidatorOutput = out
	if err != nil {
		return res.fail(errors.Validation("", out))
	}
	res.Success = true
	return res
}

func (r *Reconciler) reloadDaemon(ctx context.Context) error {
	if !r.reload {
		r.log.Debugf("daemon reload skipped")
		return nil
	}
	if err := r.daemon.Reload(ctx); err != nil {
		return errors.Command("failed to reload daemon", "", err)
	}
	return nil
}
