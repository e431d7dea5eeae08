// Package config defines the site specification and the on-disk registry
// of sites siteman knows about.
//
// The registry is bookkeeping only: the source of truth for what nginx
// serves is always the sites-available/sites-enabled stores, re-read on
// every invocation. The registry exists so list/show/doctor can report the
// specs that produced the live configs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	registryDir  = ".config/siteman"
	registryFile = "sites.yaml"
)

// Registry is the persisted collection of site specs.
type Registry struct {
	Sites map[string]*SiteSpec `yaml:"sites"`

	path string
}

// DefaultPath returns the registry file path under the user's home.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, registryDir, registryFile), nil
}

// Load reads the registry from path. A missing file yields an empty
// registry, not an error.
func Load(path string) (*Registry, error) {
	reg := &Registry{Sites: make(map[string]*SiteSpec), path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return reg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}
	if err := yaml.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}
	if reg.Sites == nil {
		reg.Sites = make(map[string]*SiteSpec)
	}
	return reg, nil
}

// Save writes the registry back to the path it was loaded from.
func (r *Registry) Save() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry: %w", err)
	}
	return nil
}

// Put records a spec under its full domain, replacing any previous entry.
func (r *Registry) Put(spec SiteSpec) {
	r.Sites[spec.FullDomain()] = &spec
}

// Get returns the spec registered for fullDomain.
func (r *Registry) Get(fullDomain string) (*SiteSpec, bool) {
	spec, ok := r.Sites[fullDomain]
	return spec, ok
}

// Delete removes the entry for fullDomain, if present.
func (r *Registry) Delete(fullDomain string) {
	delete(r.Sites, fullDomain)
}

// Domains returns all registered full domains.
func (r *Registry) Domains() []string {
	domains := make([]string, 0, len(r.Sites))
	for d := range r.Sites {
		domains = append(domains, d)
	}
	return domains
}
