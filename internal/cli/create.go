package cli

import (
	"time"

	"github.com/ksyq12/siteman/internal/config"
	"github.com/ksyq12/siteman/internal/reconcile"
	"github.com/ksyq12/siteman/internal/render"
	"github.com/spf13/cobra"
)

var (
	createSubdomain       string
	createPort            int
	createSSL             bool
	createEmail           string
	createRateLimit       bool
	createSecurityHeaders bool
	createNoGzip          bool
	createNoAccessLog     bool
	createNoErrorLog      bool
	createStaticPath      string
	createMaxBodySize     string
	createNoReload        bool
)

var createCmd = &cobra.Command{
	Use:   "create <domain>",
	Short: "Create and enable a site",
	Long: `Create a reverse-proxy site configuration, validate it, and enable it.

With --ssl a certificate is obtained through certbot after the site first
goes live over HTTP; if issuance fails the site stays HTTP-only and can be
retried by running create again.

Examples:
  siteman create example.com --port 8080
  siteman create example.com --subdomain api --port 3000
  siteman create example.com --ssl --email ops@example.com
  siteman create example.com --ssl --rate-limit --security-headers`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createSubdomain, "subdomain", "s", "", "Subdomain to prepend to the domain")
	createCmd.Flags().IntVarP(&createPort, "port", "p", config.DefaultPort, "Upstream port to proxy to")
	createCmd.Flags().BoolVar(&createSSL, "ssl", false, "Obtain a certificate and serve over HTTPS")
	createCmd.Flags().StringVar(&createEmail, "email", "", "Account email for the certificate authority")
	createCmd.Flags().BoolVar(&createRateLimit, "rate-limit", false, "Enable request rate limiting")
	createCmd.Flags().BoolVar(&createSecurityHeaders, "security-headers", false, "Add security headers (requires --ssl)")
	createCmd.Flags().BoolVar(&createNoGzip, "no-gzip", false, "Disable gzip compression")
	createCmd.Flags().BoolVar(&createNoAccessLog, "no-access-log", false, "Disable the access log")
	createCmd.Flags().BoolVar(&createNoErrorLog, "no-error-log", false, "Disable the error log")
	createCmd.Flags().StringVar(&createStaticPath, "static-path", "", "Directory served for static assets")
	createCmd.Flags().StringVar(&createMaxBodySize, "max-body-size", "", "client_max_body_size value (default 10m)")
	createCmd.Flags().BoolVar(&createNoReload, "no-reload", false, "Don't reload the daemon")

	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	spec := config.NewSiteSpec(args[0], createSubdomain)
	spec.Port = createPort
	spec.SSL = createSSL
	spec.RateLimit = createRateLimit
	spec.SecurityHeaders = createSecurityHeaders
	spec.Gzip = !createNoGzip
	spec.AccessLog = !createNoAccessLog
	spec.ErrorLog = !createNoErrorLog
	spec.StaticPath = createStaticPath
	spec.MaxBodySize = createMaxBodySize
	spec.CreatedAt = time.Now()

	if err := spec.Validate(); err != nil {
		return err
	}
	if createEmail != "" {
		a.Certs.Email = createEmail
	}

	if dryRun {
		return outputCreateDryRun(a, spec)
	}
	if err := requireRoot(); err != nil {
		return err
	}

	res := a.reconciler(!createNoReload).Apply(cmdContext(cmd), spec, reconcile.IntentCreate)
	if res.Success {
		a.Registry.Put(spec.Normalized())
		if err := a.Registry.Save(); err != nil {
			a.Out.Warn("Site created but registry save failed: %v", err)
		}
	}
	return a.finish(res, "Site %s created and enabled", spec.FullDomain())
}

func outputCreateDryRun(a *app, spec config.SiteSpec) error {
	full := spec.FullDomain()

	content, err := render.Render(spec)
	if err != nil {
		return err
	}

	ops := []DryRunOperation{
		{
			Action:  "create_file",
			Target:  a.Store.AvailablePath(full),
			Details: "site configuration",
		},
		{
			Action:  "create_symlink",
			Target:  a.Store.EnabledPath(full),
			Details: "link to " + a.Store.AvailablePath(full),
		},
	}
	if spec.SSL && !a.Certs.CertPresent(full) {
		ops = append(ops, DryRunOperation{
			Action:  "issue_certificate",
			Target:  full,
			Details: "certbot, including the www alias",
		})
	}
	ops = reloadOperations(ops, createNoReload)

	return a.outputDryRun(&DryRunResult{
		Domain:        full,
		Operations:    ops,
		ConfigPreview: content,
	})
}
