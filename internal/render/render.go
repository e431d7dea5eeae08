// Package render turns a SiteSpec into nginx virtual-host configuration
// text.
//
// Render is a pure function of the spec: two calls with the same spec
// produce byte-identical output except for the generation-timestamp header
// line, which is cosmetic. StripHeader removes that line so callers can
// compare rendered configs for semantic equality.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/ksyq12/siteman/internal/config"
)

//go:embed nginx/site.tmpl
var templates embed.FS

const siteTemplate = "nginx/site.tmpl"

// headerPrefix marks the timestamp line in rendered output.
const headerPrefix = "# Generated:"

// templateData is the flattened view of a normalized spec the template
// consumes.
type templateData struct {
	FullDomain  string
	ZoneName    string
	GeneratedAt string

	Port    int
	SSL     bool
	SSLCert string
	SSLKey  string

	Gzip            bool
	RateLimit       bool
	SecurityHeaders bool
	AccessLog       bool
	ErrorLog        bool
	Root            string
	MaxBodySize     string
}

// Render produces the virtual-host configuration for spec.
func Render(spec config.SiteSpec) (string, error) {
	return RenderAt(spec, time.Now())
}

// RenderAt is Render with an explicit generation time, for deterministic
// output in tests.
func RenderAt(spec config.SiteSpec, now time.Time) (string, error) {
	spec = spec.Normalized()
	if err := spec.Validate(); err != nil {
		return "", fmt.Errorf("invalid site spec: %w", err)
	}

	content, err := templates.ReadFile(siteTemplate)
	if err != nil {
		return "", fmt.Errorf("template not found: %s", siteTemplate)
	}

	tmpl, err := template.New("site").Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	data := templateData{
		FullDomain:      spec.FullDomain(),
		ZoneName:        spec.ZoneName(),
		GeneratedAt:     now.UTC().Format(time.RFC3339),
		Port:            spec.Port,
		SSL:             spec.SSL,
		SSLCert:         spec.SSLCert,
		SSLKey:          spec.SSLKey,
		Gzip:            spec.Gzip,
		RateLimit:       spec.RateLimit,
		SecurityHeaders: spec.SecurityHeaders,
		AccessLog:       spec.AccessLog,
		ErrorLog:        spec.ErrorLog,
		Root:            spec.StaticPath,
		MaxBodySize:     spec.MaxBodySize,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	return buf.String(), nil
}

// StripHeader removes the generation-timestamp line so two renderings of
// the same spec compare equal.
func StripHeader(rendered string) string {
	lines := strings.Split(rendered, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, headerPrefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
