package cli

import (
	"strings"
	"testing"

	"github.com/ksyq12/siteman/internal/errors"
)

func TestRunShow(t *testing.T) {
	_, buf := setupCLI(t)
	createTestSite(t, "example.com")
	buf.Reset()
	showSubdomain = ""

	if err := runShow(showCmd, []string{"example.com"}); err != nil {
		t.Fatalf("runShow failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "server {") || !strings.Contains(out, "example.com") {
		t.Errorf("output = %q, want the live config", out)
	}
}

func TestRunShow_MissingSite(t *testing.T) {
	setupCLI(t)
	showSubdomain = ""

	err := runShow(showCmd, []string{"ghost.example.com"})
	if err == nil {
		t.Fatal("expected failure")
	}
	if !errors.Is(err, errors.ErrSiteNotFound) {
		t.Errorf("err = %v, want not-found class", err)
	}
}
