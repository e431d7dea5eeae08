package reconcile

import "fmt"

// Result is the structured outcome of one reconciliation. Failures are
// returned here rather than panicking or aborting the process; only truly
// unexpected faults escape as errors from lower layers.
type Result struct {
	Success         bool     `json:"success"`
	Changed         bool     `json:"changed"`
	Domain          string   `json:"domain,omitempty"`
	ConfigPath      string   `json:"config_path,omitempty"`
	ValidatorOutput string   `json:"validator_output,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
	Errors          []string `json:"errors,omitempty"`

	err error
}

func (r *Result) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Result) fail(err error) *Result {
	r.Success = false
	r.Errors = append(r.Errors, err.Error())
	if r.err == nil {
		r.err = err
	}
	return r
}

// FirstError returns the first structured error recorded, for callers
// that need errors.Is checks on the failure class.
func (r *Result) FirstError() error {
	return r.err
}
