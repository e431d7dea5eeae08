package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Defaults applied by Normalized for fields left unset.
const (
	DefaultPort            = 3000
	DefaultMaxBodySize     = "10m"
	DefaultWebRoot         = "/var/www"
	DefaultLetsEncryptLive = "/etc/letsencrypt/live"
)

// SiteSpec is the declarative description of a reverse-proxied site.
// It is immutable per invocation; every derived artifact (config file,
// symlink, rate-limit zone, cert paths, log paths) is keyed by FullDomain.
type SiteSpec struct {
	Domain    string `yaml:"domain"`
	Subdomain string `yaml:"subdomain,omitempty"`
	Port      int    `yaml:"port"`
	SSL       bool   `yaml:"ssl"`
	SSLCert   string `yaml:"ssl_cert,omitempty"`
	SSLKey    string `yaml:"ssl_key,omitempty"`

	Gzip            bool   `yaml:"gzip"`
	RateLimit       bool   `yaml:"rate_limit"`
	SecurityHeaders bool   `yaml:"security_headers"`
	AccessLog       bool   `yaml:"access_log"`
	ErrorLog        bool   `yaml:"error_log"`
	StaticPath      string `yaml:"static_path,omitempty"`
	MaxBodySize     string `yaml:"client_max_body_size,omitempty"`

	CreatedAt time.Time `yaml:"created_at,omitempty"`
}

// NewSiteSpec creates a spec with the toggles a freshly created site gets:
// gzip and both logs on, rate limiting and security headers off until
// requested.
func NewSiteSpec(domain, subdomain string) SiteSpec {
	return SiteSpec{
		Domain:    domain,
		Subdomain: subdomain,
		Port:      DefaultPort,
		Gzip:      true,
		AccessLog: true,
		ErrorLog:  true,
	}
}

// FullDomain joins subdomain and domain. An empty subdomain never produces
// a leading dot.
func (s *SiteSpec) FullDomain() string {
	if s.Subdomain == "" {
		return s.Domain
	}
	return s.Subdomain + "." + s.Domain
}

// ZoneName derives the rate-limit zone name: every dot in the full domain
// replaced by an underscore, suffixed "_limit".
func (s *SiteSpec) ZoneName() string {
	return strings.ReplaceAll(s.FullDomain(), ".", "_") + "_limit"
}

// Normalized returns a copy with defaults filled in and cross-field rules
// applied: port and body size defaults, the Let's Encrypt convention cert
// paths, the document root under /var/www, and security headers forced off
// when TLS is off (no hardening headers over plain HTTP).
func (s SiteSpec) Normalized() SiteSpec {
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.MaxBodySize == "" {
		s.MaxBodySize = DefaultMaxBodySize
	}
	if s.StaticPath == "" {
		s.StaticPath = filepath.Join(DefaultWebRoot, s.FullDomain())
	}
	if s.SSL {
		if s.SSLCert == "" {
			s.SSLCert = filepath.Join(DefaultLetsEncryptLive, s.FullDomain(), "fullchain.pem")
		}
		if s.SSLKey == "" {
			s.SSLKey = filepath.Join(DefaultLetsEncryptLive, s.FullDomain(), "privkey.pem")
		}
	} else {
		s.SecurityHeaders = false
	}
	return s
}

// Validate checks the spec for structural problems.
func (s *SiteSpec) Validate() error {
	if err := ValidateDomain(s.Domain); err != nil {
		return err
	}
	if s.Subdomain != "" {
		if err := ValidateDomain(s.Subdomain); err != nil {
			return fmt.Errorf("subdomain: %w", err)
		}
	}
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("port %d out of range", s.Port)
	}
	if s.StaticPath != "" && !filepath.IsAbs(s.StaticPath) {
		return fmt.Errorf("static path must be absolute: %s", s.StaticPath)
	}
	return nil
}

// ValidateDomain checks that a domain label sequence is plausible.
func ValidateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}
	if strings.ContainsAny(domain, " /\\") {
		return fmt.Errorf("domain contains invalid characters: %s", domain)
	}
	if strings.HasPrefix(domain, "-") || strings.HasSuffix(domain, "-") {
		return fmt.Errorf("domain cannot start or end with hyphen: %s", domain)
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return fmt.Errorf("domain cannot start or end with a dot: %s", domain)
	}
	return nil
}
