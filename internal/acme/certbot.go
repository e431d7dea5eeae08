// Package acme provisions TLS certificates through the certbot CLI.
//
// The provisioner installs certbot on demand, obtains certificates for a
// site and its www alias non-interactively, and maintains a single
// deduplicated cron entry for renewal. Issuance failure is never fatal to
// the caller: the site stays served over plain HTTP until a later attempt
// succeeds.
package acme

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ksyq12/siteman/internal/executor"
	"github.com/ksyq12/siteman/internal/logger"
)

// IssueTimeout bounds a certificate request; ACME round trips with DNS
// propagation can take minutes.
const IssueTimeout = 10 * time.Minute

// letsencryptLive is the base directory certbot installs certificates into.
const letsencryptLive = "/etc/letsencrypt/live"

// Cert holds the filesystem paths of an issued certificate.
type Cert struct {
	Domain   string
	CertPath string
	KeyPath  string
}

// CertPaths returns the convention paths for a domain's certificate.
func CertPaths(fullDomain string) Cert {
	return Cert{
		Domain:   fullDomain,
		CertPath: filepath.Join(letsencryptLive, fullDomain, "fullchain.pem"),
		KeyPath:  filepath.Join(letsencryptLive, fullDomain, "privkey.pem"),
	}
}

// Provisioner obtains and renews certificates via certbot.
type Provisioner struct {
	exec executor.Runner
	log  *logger.Logger

	// Email registered with the CA. Empty means unsafe registration
	// without an account email.
	Email string

	// LiveDir overrides the certificate directory, for tests.
	LiveDir string
}

// New creates a Provisioner.
func New(exec executor.Runner, log *logger.Logger) *Provisioner {
	return &Provisioner{exec: exec, log: log, LiveDir: letsencryptLive}
}

// ClientInstalled reports whether certbot is on PATH.
func (p *Provisioner) ClientInstalled() bool {
	_, err := p.exec.LookPath("certbot")
	return err == nil
}

// EnsureClient installs certbot if missing. Already installed is a no-op.
func (p *Provisioner) EnsureClient(ctx context.Context) error {
	if p.ClientInstalled() {
		p.log.Debugf("certbot already installed")
		return nil
	}
	p.log.Infof("installing certbot")
	res, err := p.exec.Run(ctx, "apt-get", "install", "-y", "certbot", "python3-certbot-nginx")
	if err != nil {
		return fmt.Errorf("failed to run package manager: %w", err)
	}
	if !res.Ok() {
		return fmt.Errorf("certbot install failed: %s", res.Output())
	}
	return nil
}

// CertPresent reports whether a certificate for fullDomain exists on disk.
func (p *Provisioner) CertPresent(fullDomain string) bool {
	_, err := os.Stat(filepath.Join(p.LiveDir, fullDomain, "fullchain.pem"))
	return err == nil
}

// Issue obtains a certificate for fullDomain and its www alias using the
// certbot nginx plugin, non-interactively. The returned output is the
// certbot output, also populated on failure.
func (p *Provisioner) Issue(ctx context.Context, fullDomain string) (string, error) {
	args := []string{
		"--nginx",
		"-d", fullDomain,
		"-d", "www." + fullDomain,
		"--agree-tos",
		"--non-interactive",
		"--no-redirect",
	}
	if p.Email != "" {
		args = append(args, "--email", p.Email)
	} else {
		args = append(args, "--register-unsafely-without-email")
	}

	p.log.InfoFields("requesting certificate", map[string]interface{}{
		"domain": fullDomain,
		"alias":  "www." + fullDomain,
	})
	res, err := p.exec.Run(ctx, "certbot", args...)
	if err != nil {
		return "", fmt.Errorf("failed to run certbot: %w", err)
	}
	out := res.Output()
	if !res.Ok() {
		return out, fmt.Errorf("certbot failed for %s", fullDomain)
	}
	return out, nil
}
