package acme

import (
	"context"
	"strings"
	"testing"

	"github.com/ksyq12/siteman/internal/executor"
	"github.com/ksyq12/siteman/internal/logger"
)

func TestEnsureRenewalJob(t *testing.T) {
	ctx := context.Background()

	t.Run("appends to empty crontab", func(t *testing.T) {
		mock := &executor.MockRunner{}
		// The read "fails" with the missing-crontab message; the write succeeds.
		mock.RunFunc = func(name string, args ...string) (executor.Result, error) {
			if len(args) > 0 && args[0] == "-l" {
				return executor.Result{ExitCode: 1, Stderr: "no crontab for root\n"}, nil
			}
			return executor.Result{}, nil
		}
		p := New(mock, logger.Nop())

		if err := p.EnsureRenewalJob(ctx); err != nil {
			t.Fatalf("EnsureRenewalJob failed: %v", err)
		}

		if len(mock.Calls) != 2 {
			t.Fatalf("expected read then write, got %+v", mock.Calls)
		}
		written := mock.Calls[1].Input
		if !strings.Contains(written, "certbot renew") {
			t.Errorf("renewal job missing from crontab: %q", written)
		}
		if strings.Count(written, renewalMarker) != 1 {
			t.Errorf("expected exactly one marked entry: %q", written)
		}
	})

	t.Run("preserves existing entries", func(t *testing.T) {
		existing := "30 1 * * * /usr/local/bin/backup.sh\n"
		mock := &executor.MockRunner{}
		mock.RunFunc = func(name string, args ...string) (executor.Result, error) {
			if len(args) > 0 && args[0] == "-l" {
				return executor.Result{Stdout: existing}, nil
			}
			return executor.Result{}, nil
		}
		p := New(mock, logger.Nop())

		if err := p.EnsureRenewalJob(ctx); err != nil {
			t.Fatal(err)
		}
		written := mock.Calls[1].Input
		if !strings.HasPrefix(written, existing) {
			t.Errorf("existing entries lost: %q", written)
		}
		if !strings.Contains(written, renewalMarker) {
			t.Errorf("renewal job not appended: %q", written)
		}
	})

	t.Run("idempotent when entry exists", func(t *testing.T) {
		mock := &executor.MockRunner{}
		mock.RunFunc = func(name string, args ...string) (executor.Result, error) {
			if len(args) > 0 && args[0] == "-l" {
				return executor.Result{Stdout: renewalJob + "\n"}, nil
			}
			return executor.Result{}, nil
		}
		p := New(mock, logger.Nop())

		if err := p.EnsureRenewalJob(ctx); err != nil {
			t.Fatal(err)
		}
		// Only the read: no rewrite, no duplicate entry.
		if len(mock.Calls) != 1 {
			t.Errorf("expected read only, got %+v", mock.Calls)
		}
	})

	t.Run("unexpected crontab failure surfaces", func(t *testing.T) {
		mock := &executor.MockRunner{Results: map[string]executor.Result{
			"crontab": {ExitCode: 1, Stderr: "crontab: permission denied\n"},
		}}
		p := New(mock, logger.Nop())

		if err := p.EnsureRenewalJob(ctx); err == nil {
			t.Error("expected error for non-missing crontab failure")
		}
	})
}
