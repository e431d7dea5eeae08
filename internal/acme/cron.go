package acme

import (
	"context"
	"fmt"
	"strings"
)

// renewalJob is the canonical crontab line for certificate renewal. The
// trailing marker is the job signature used for deduplication, so repeated
// TLS attaches converge to a single entry instead of appending duplicates.
const (
	renewalMarker = "# siteman-renew"
	renewalJob    = "0 3 * * * certbot renew --quiet --no-self-upgrade " + renewalMarker
)

// EnsureRenewalJob installs the periodic renewal cron entry unless an
// equivalent entry already exists.
func (p *Provisioner) EnsureRenewalJob(ctx context.Context) error {
	current := ""
	res, err := p.exec.Run(ctx, "crontab", "-l")
	if err != nil {
		return fmt.Errorf("failed to read crontab: %w", err)
	}
	if res.Ok() {
		current = res.Stdout
	} else if !strings.Contains(res.Stderr, "no crontab") {
		return fmt.Errorf("crontab -l failed: %s", res.Output())
	}

	for _, line := range strings.Split(current, "\n") {
		if strings.Contains(line, renewalMarker) {
			p.log.Debugf("renewal job already present, skipping")
			return nil
		}
	}

	updated := current
	if updated != "" && !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}
	updated += renewalJob + "\n"

	p.log.Infof("installing certificate renewal cron job")
	res, err = p.exec.RunInput(ctx, updated, "crontab", "-")
	if err != nil {
		return fmt.Errorf("failed to write crontab: %w", err)
	}
	if !res.Ok() {
		return fmt.Errorf("crontab update failed: %s", res.Output())
	}
	return nil
}
