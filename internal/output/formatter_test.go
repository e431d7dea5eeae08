package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestPrinter_Messages(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	p.Success("site %s created", "example.com")
	p.Warn("already enabled")
	p.Error("validation failed")
	p.Info("reloading nginx")
	p.Print("plain %d", 42)

	out := buf.String()
	for _, want := range []string{
		"✓ site example.com created",
		"! already enabled",
		"✗ validation failed",
		"→ reloading nginx",
		"plain 42",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	if err := p.JSON(map[string]interface{}{"success": true, "domain": "example.com"}); err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["domain"] != "example.com" {
		t.Errorf("domain = %v", decoded["domain"])
	}
	if decoded["success"] != true {
		t.Errorf("success = %v", decoded["success"])
	}
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	p.Table(
		[]string{"DOMAIN", "ENABLED"},
		[][]string{
			{"example.com", "yes"},
			{"api.example.com", "no"},
		},
	)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "DOMAIN") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "---") {
		t.Errorf("separator = %q", lines[1])
	}
	// Columns align on the widest cell.
	if !strings.Contains(lines[2], "example.com     ") {
		t.Errorf("row not padded: %q", lines[2])
	}
}

func TestPrinter_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)
	p.Table(nil, nil)
	if buf.Len() != 0 {
		t.Errorf("empty table should print nothing, got %q", buf.String())
	}
}
