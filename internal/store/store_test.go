package store

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	tempDir := t.TempDir()
	s := New(filepath.Join(tempDir, "sites-available"), filepath.Join(tempDir, "sites-enabled"))
	if err := s.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}
	return s
}

func writeSite(t *testing.T, s *Store, domain, content string) {
	t.Helper()
	if err := os.WriteFile(s.AvailablePath(domain), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestStore_StageCommitDiscard(t *testing.T) {
	s := newTestStore(t)
	writeSite(t, s, "example.com", "old config")

	staged, err := s.Stage("example.com", "new config")
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}

	// Staging must not touch the live file.
	if content, _ := s.ReadConfig("example.com"); content != "old config" {
		t.Errorf("live config changed by staging: %q", content)
	}

	// Staged files are hidden from List.
	domains, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(domains) != 1 || domains[0] != "example.com" {
		t.Errorf("List() = %v", domains)
	}

	if err := s.Commit("example.com", staged); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if content, _ := s.ReadConfig("example.com"); content != "new config" {
		t.Errorf("config after commit = %q", content)
	}
	if _, err := os.Lstat(staged); !os.IsNotExist(err) {
		t.Error("staged file should be gone after commit")
	}

	// Discard tolerates missing files.
	s.Discard(staged)
}

func TestStore_EnableIdempotent(t *testing.T) {
	s := newTestStore(t)
	writeSite(t, s, "example.com", "config")

	changed, err := s.Enable("example.com")
	if err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if !changed {
		t.Error("first Enable should report a mutation")
	}

	info, err := os.Lstat(s.EnabledPath("example.com"))
	if err != nil {
		t.Fatalf("symlink not found: %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Error("expected a symlink")
	}
	mtimeBefore := info.ModTime()

	changed, err = s.Enable("example.com")
	if err != nil {
		t.Fatalf("second Enable failed: %v", err)
	}
	if changed {
		t.Error("re-enabling should be a no-op")
	}
	info, _ = os.Lstat(s.EnabledPath("example.com"))
	if !info.ModTime().Equal(mtimeBefore) {
		t.Error("no-op Enable must not touch the link")
	}
}

func TestStore_EnableMissingSite(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Enable("ghost.example.com"); err == nil {
		t.Error("expected error enabling a site with no available file")
	}
}

func TestStore_DisableIdempotent(t *testing.T) {
	s := newTestStore(t)
	writeSite(t, s, "example.com", "config")
	if _, err := s.Enable("example.com"); err != nil {
		t.Fatal(err)
	}

	changed, err := s.Disable("example.com")
	if err != nil {
		t.Fatalf("Disable failed: %v", err)
	}
	if !changed {
		t.Error("first Disable should report a mutation")
	}

	changed, err = s.Disable("example.com")
	if err != nil {
		t.Fatalf("second Disable failed: %v", err)
	}
	if changed {
		t.Error("disabling a not-enabled site should be a no-op, not an error")
	}
}

func TestStore_DisableRefusesRegularFile(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.EnabledPath("example.com"), []byte("not a link"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Disable("example.com"); err == nil {
		t.Error("expected refusal to remove a non-symlink")
	}
}

func TestStore_RemoveIdempotent(t *testing.T) {
	s := newTestStore(t)
	writeSite(t, s, "example.com", "config")

	changed, err := s.Remove("example.com")
	if err != nil || !changed {
		t.Fatalf("Remove = %v, %v", changed, err)
	}
	changed, err = s.Remove("example.com")
	if err != nil {
		t.Fatalf("removing an absent file should not error: %v", err)
	}
	if changed {
		t.Error("second Remove should be a no-op")
	}
}

func TestStore_State(t *testing.T) {
	s := newTestStore(t)

	t.Run("absent", func(t *testing.T) {
		state := s.State("example.com")
		if state.Available || state.Enabled {
			t.Errorf("state of absent site = %+v", state)
		}
	})

	t.Run("available only", func(t *testing.T) {
		writeSite(t, s, "example.com", "config")
		state := s.State("example.com")
		if !state.Available || state.Enabled {
			t.Errorf("state = %+v", state)
		}
	})

	t.Run("enabled", func(t *testing.T) {
		if _, err := s.Enable("example.com"); err != nil {
			t.Fatal(err)
		}
		state := s.State("example.com")
		if !state.Available || !state.Enabled {
			t.Errorf("state = %+v", state)
		}
	})

	t.Run("broken symlink", func(t *testing.T) {
		if _, err := s.Remove("example.com"); err != nil {
			t.Fatal(err)
		}
		// Link remains, target is gone.
		state := s.State("example.com")
		if state.Available || state.Enabled {
			t.Errorf("broken link should report both false, got %+v", state)
		}
		if len(state.Warnings) == 0 {
			t.Error("broken link should produce a warning")
		}
	})
}

func TestStore_PointEnabledAndRestore(t *testing.T) {
	s := newTestStore(t)
	writeSite(t, s, "example.com", "live config")
	if _, err := s.Enable("example.com"); err != nil {
		t.Fatal(err)
	}

	staged, err := s.Stage("example.com", "candidate config")
	if err != nil {
		t.Fatal(err)
	}

	prev, existed, err := s.PointEnabled("example.com", staged)
	if err != nil {
		t.Fatalf("PointEnabled failed: %v", err)
	}
	if !existed || prev != s.AvailablePath("example.com") {
		t.Errorf("prev = %q existed = %v", prev, existed)
	}

	// The validator would now see the staged content through the link.
	linked, err := os.ReadFile(s.EnabledPath("example.com"))
	if err != nil {
		t.Fatal(err)
	}
	if string(linked) != "candidate config" {
		t.Errorf("link content = %q", linked)
	}

	if err := s.RestoreEnabled("example.com", prev, existed); err != nil {
		t.Fatalf("RestoreEnabled failed: %v", err)
	}
	linked, _ = os.ReadFile(s.EnabledPath("example.com"))
	if string(linked) != "live config" {
		t.Errorf("restored link content = %q", linked)
	}
	if content, _ := s.ReadConfig("example.com"); content != "live config" {
		t.Errorf("live file modified during staging dance: %q", content)
	}
}

func TestStore_PointEnabledOnDisabledSite(t *testing.T) {
	s := newTestStore(t)
	staged, err := s.Stage("example.com", "candidate")
	if err != nil {
		t.Fatal(err)
	}

	prev, existed, err := s.PointEnabled("example.com", staged)
	if err != nil {
		t.Fatalf("PointEnabled failed: %v", err)
	}
	if existed || prev != "" {
		t.Errorf("prev = %q existed = %v for a disabled site", prev, existed)
	}

	// Restore removes the link entirely.
	if err := s.RestoreEnabled("example.com", prev, existed); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Lstat(s.EnabledPath("example.com")); !os.IsNotExist(err) {
		t.Error("link should be removed when it did not previously exist")
	}
}

func TestStore_ListMissingDir(t *testing.T) {
	s := New("/nonexistent/sites-available", "/nonexistent/sites-enabled")
	domains, err := s.List()
	if err != nil {
		t.Fatalf("List on missing dir should not error: %v", err)
	}
	if len(domains) != 0 {
		t.Errorf("List() = %v", domains)
	}
}
