// Package store manages the sites-available and sites-enabled directories.
//
// A site is Available when its config file exists in the available store,
// and Enabled when a symlink of the same name in the enabled store points
// at that file. Writes are staged: the candidate config lands in a hidden
// temp file, is validated by the caller, and only then atomically renamed
// over the target. All state-changing operations are idempotent and report
// whether they actually mutated the filesystem.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SiteState is the observed filesystem state of a site. It is derived
// fresh on every call and never cached across invocations.
type SiteState struct {
	Available   bool
	Enabled     bool
	CertPresent bool
	Warnings    []string
}

// Store holds the two site directories.
type Store struct {
	Available string
	Enabled   string
}

// New creates a Store over the given directories.
func New(available, enabled string) *Store {
	return &Store{Available: available, Enabled: enabled}
}

// AvailablePath returns the config file path for fullDomain.
func (s *Store) AvailablePath(fullDomain string) string {
	return filepath.Join(s.Available, fullDomain)
}

// EnabledPath returns the symlink path for fullDomain.
func (s *Store) EnabledPath(fullDomain string) string {
	return filepath.Join(s.Enabled, fullDomain)
}

// EnsureDirs creates both store directories if missing.
func (s *Store) EnsureDirs() error {
	for _, dir := range []string{s.Available, s.Enabled} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create store directory %s: %w", dir, err)
		}
	}
	return nil
}

// Stage writes content to a hidden temp file in the available store and
// returns its path. The previously-live config file is not touched.
func (s *Store) Stage(fullDomain, content string) (string, error) {
	if err := s.EnsureDirs(); err != nil {
		return "", err
	}
	staged := filepath.Join(s.Available, "."+fullDomain+".staged")
	if err := os.WriteFile(staged, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to stage config: %w", err)
	}
	return staged, nil
}

// Commit atomically renames a staged file over the site's config file.
func (s *Store) Commit(fullDomain, staged string) error {
	if err := os.Rename(staged, s.AvailablePath(fullDomain)); err != nil {
		return fmt.Errorf("failed to commit staged config: %w", err)
	}
	return nil
}

// Discard removes a staged file. Missing files are ignored.
func (s *Store) Discard(staged string) {
	_ = os.Remove(staged)
}

// Enable points the enabled-store symlink at the site's available file.
// Returns false without touching anything when the link already points
// there; a link pointing elsewhere (or broken) is replaced.
func (s *Store) Enable(fullDomain string) (bool, error) {
	source := s.AvailablePath(fullDomain)
	if _, err := os.Stat(source); os.IsNotExist(err) {
		return false, fmt.Errorf("site %s not found in %s", fullDomain, s.Available)
	}
	return s.pointLink(fullDomain, source)
}

// PointEnabled points the enabled-store symlink at an arbitrary target,
// returning the previous target ("" if the link did not exist) so the
// caller can restore it. Used to expose a staged config to the daemon's
// validator before committing.
func (s *Store) PointEnabled(fullDomain, target string) (prev string, existed bool, err error) {
	link := s.EnabledPath(fullDomain)
	if current, lerr := os.Readlink(link); lerr == nil {
		prev, existed = current, true
	}
	if _, err := s.pointLink(fullDomain, target); err != nil {
		return prev, existed, err
	}
	return prev, existed, nil
}

// RestoreEnabled undoes a PointEnabled: re-points the link at prev, or
// removes it when the link did not previously exist.
func (s *Store) RestoreEnabled(fullDomain, prev string, existed bool) error {
	if !existed {
		_, err := s.Disable(fullDomain)
		return err
	}
	_, err := s.pointLink(fullDomain, prev)
	return err
}

func (s *Store) pointLink(fullDomain, target string) (bool, error) {
	if err := s.EnsureDirs(); err != nil {
		return false, err
	}
	link := s.EnabledPath(fullDomain)

	if info, err := os.Lstat(link); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			if current, err := os.Readlink(link); err == nil && current == target {
				return false, nil
			}
		}
		if err := os.Remove(link); err != nil {
			return false, fmt.Errorf("failed to replace enabled link: %w", err)
		}
	}
	if err := os.Symlink(target, link); err != nil {
		return false, fmt.Errorf("failed to enable site: %w", err)
	}
	return true, nil
}

// Disable removes the enabled-store symlink. Returns false when the site
// was not enabled; a missing link is not an error.
func (s *Store) Disable(fullDomain string) (bool, error) {
	link := s.EnabledPath(fullDomain)

	info, err := os.Lstat(link)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check site status: %w", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return false, fmt.Errorf("site %s: enabled entry is not a symlink, refusing to remove", fullDomain)
	}
	if err := os.Remove(link); err != nil {
		return false, fmt.Errorf("failed to disable site: %w", err)
	}
	return true, nil
}

// Remove deletes the site's available-store file. Returns false when the
// file was already absent; that is not an error.
func (s *Store) Remove(fullDomain string) (bool, error) {
	err := os.Remove(s.AvailablePath(fullDomain))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to remove config file: %w", err)
	}
	return true, nil
}

// State reads the site's filesystem state. A broken symlink (target gone)
// reports both available=false and enabled=false, with a warning.
func (s *Store) State(fullDomain string) SiteState {
	var state SiteState

	if _, err := os.Stat(s.AvailablePath(fullDomain)); err == nil {
		state.Available = true
	}

	link := s.EnabledPath(fullDomain)
	if info, err := os.Lstat(link); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			state.Warnings = append(state.Warnings,
				fmt.Sprintf("enabled entry for %s is a regular file, not a symlink", fullDomain))
			state.Enabled = state.Available
		} else if _, err := os.Stat(link); err != nil {
			// Symlink exists but its target is gone.
			state.Warnings = append(state.Warnings,
				fmt.Sprintf("enabled link for %s is broken", fullDomain))
			state.Available = false
			state.Enabled = false
		} else {
			state.Enabled = true
		}
	}

	return state
}

// ReadConfig returns the content of the site's available-store file.
func (s *Store) ReadConfig(fullDomain string) (string, error) {
	data, err := os.ReadFile(s.AvailablePath(fullDomain))
	if err != nil {
		return "", fmt.Errorf("failed to read config for %s: %w", fullDomain, err)
	}
	return string(data), nil
}

// List returns the full domains present in the available store, skipping
// dotfiles (which includes staged temp files).
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Available)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.Available, err)
	}

	domains := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			domains = append(domains, entry.Name())
		}
	}
	return domains, nil
}
