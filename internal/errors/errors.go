// Package errors provides standardized error types for siteman.
//
// SiteError is the primary error type. Its code tags the failure class the
// reconciler's error taxonomy cares about:
//
//	PREREQUISITE  daemon or ACME client absent and auto-install failed (fatal)
//	VALIDATION    rendered config failed the daemon's syntax check (recoverable)
//	COMMAND       an external command failed mid-step
//	CERT          certificate issuance failed (non-fatal, degrade to HTTP)
//	LOCK          another invocation holds the site lock
//
// plus NOT_FOUND / ALREADY_EXISTS / INTERNAL for the usual CLI cases.
//
// Use errors.Is with the sentinels for class checks:
//
//	if errors.Is(err, errors.ErrValidationFailed) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Code categorizes errors for programmatic handling.
type Code string

const (
	CodePrerequisite  Code = "PREREQUISITE"
	CodeValidation    Code = "VALIDATION"
	CodeCommand       Code = "COMMAND"
	CodeCert          Code = "CERT"
	CodeLock          Code = "LOCK"
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
	CodeInternal      Code = "INTERNAL"
)

// SiteError is a structured error with context about the operation.
type SiteError struct {
	Code    Code   // Failure class
	Message string // Human-readable message
	Domain  string // Full domain of the site involved, if any
	Detail  string // Verbatim external output (validator, installer), if any
	Err     error  // Underlying error, if any
}

// Error implements the error interface.
func (e *SiteError) Error() string {
	switch {
	case e.Domain != "" && e.Err != nil:
		return fmt.Sprintf("site %s: %s: %v", e.Domain, e.Message, e.Err)
	case e.Domain != "":
		return fmt.Sprintf("site %s: %s", e.Domain, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain traversal.
func (e *SiteError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error. Comparison is by code, so
// sentinels match any SiteError of the same class.
func (e *SiteError) Is(target error) bool {
	t, ok := target.(*SiteError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for class checks with errors.Is.
var (
	ErrPrerequisite     = &SiteError{Code: CodePrerequisite, Message: "prerequisite missing"}
	ErrValidationFailed = &SiteError{Code: CodeValidation, Message: "configuration validation failed"}
	ErrCommandFailed    = &SiteError{Code: CodeCommand, Message: "external command failed"}
	ErrCertIssuance     = &SiteError{Code: CodeCert, Message: "certificate issuance failed"}
	ErrLocked           = &SiteError{Code: CodeLock, Message: "site is locked by another invocation"}
	ErrSiteNotFound     = &SiteError{Code: CodeNotFound, Message: "site not found"}
	ErrSiteExists       = &SiteError{Code: CodeAlreadyExists, Message: "site already exists"}
)

// Prerequisite creates a fatal prerequisite error.
func Prerequisite(msg string, err error) error {
	return &SiteError{Code: CodePrerequisite, Message: msg, Err: err}
}

// Validation creates a validation error carrying the validator's verbatim
// output in Detail.
func Validation(domain, detail string) error {
	return &SiteError{
		Code:    CodeValidation,
		Message: "configuration validation failed",
		Domain:  domain,
		Detail:  detail,
	}
}

// Command creates an error for a failed external command.
func Command(msg, detail string, err error) error {
	return &SiteError{Code: CodeCommand, Message: msg, Detail: detail, Err: err}
}

// Cert creates a non-fatal certificate issuance error.
func Cert(domain, detail string) error {
	return &SiteError{
		Code:    CodeCert,
		Message: "certificate issuance failed",
		Domain:  domain,
		Detail:  detail,
	}
}

// NotFound creates an error for a site that doesn't exist.
func NotFound(domain string) error {
	return &SiteError{Code: CodeNotFound, Message: "site not found", Domain: domain}
}

// AlreadyExists creates an error for a site that already exists.
func AlreadyExists(domain string) error {
	return &SiteError{Code: CodeAlreadyExists, Message: "site already exists", Domain: domain}
}

// Locked creates an error for a site whose advisory lock is held elsewhere.
func Locked(domain string) error {
	return &SiteError{Code: CodeLock, Message: "site is locked by another invocation", Domain: domain}
}

// Wrap creates an error with the given code, message, and underlying error.
func Wrap(code Code, msg string, err error) error {
	return &SiteError{Code: code, Message: msg, Err: err}
}

// Detail extracts the verbatim external output from an error chain, if the
// error is a SiteError carrying one.
func Detail(err error) string {
	var se *SiteError
	if errors.As(err, &se) {
		return se.Detail
	}
	return ""
}

// Is reports whether any error in err's chain matches target.
// Re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// Re-export of errors.As for convenience.
var As = errors.As
