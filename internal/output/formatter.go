// Package output formats user-facing messages on stdout.
//
// The logger package handles debugging output on stderr; this package owns
// what the operator actually reads: colored status lines, tables, and the
// JSON mode used by scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
)

// Printer writes user-facing output to a single destination.
type Printer struct {
	w io.Writer
}

// New creates a Printer writing to stdout.
func New() *Printer {
	return &Printer{w: os.Stdout}
}

// NewWithWriter creates a Printer with a custom destination, for tests.
func NewWithWriter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// JSON writes data as indented JSON.
func (p *Printer) JSON(data interface{}) error {
	encoder := json.NewEncoder(p.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...interface{}) {
	_, _ = successColor.Fprintf(p.w, "✓ "+format+"\n", args...)
}

// Error prints an error message.
func (p *Printer) Error(format string, args ...interface{}) {
	_, _ = errorColor.Fprintf(p.w, "✗ "+format+"\n", args...)
}

// Warn prints a warning message.
func (p *Printer) Warn(format string, args ...interface{}) {
	_, _ = warnColor.Fprintf(p.w, "! "+format+"\n", args...)
}

// Info prints an info message.
func (p *Printer) Info(format string, args ...interface{}) {
	_, _ = infoColor.Fprintf(p.w, "→ "+format+"\n", args...)
}

// Print prints a plain message.
func (p *Printer) Print(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

// Table prints a formatted table with aligned columns.
func (p *Printer) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := make([]string, len(headers))
	for i, h := range headers {
		line[i] = fmt.Sprintf("%-*s", widths[i], h)
	}
	_, _ = fmt.Fprintln(p.w, strings.Join(line, "  "))

	for i, w := range widths {
		line[i] = strings.Repeat("-", w)
	}
	_, _ = fmt.Fprintln(p.w, strings.Join(line, "  "))

	for _, row := range rows {
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			line[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		_, _ = fmt.Fprintln(p.w, strings.Join(line, "  "))
	}
}
