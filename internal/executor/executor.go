// Package executor provides a uniform contract for running external commands.
//
// Every privileged operation in siteman (service control, symlink creation,
// certificate issuance) passes through the Runner interface, so a test
// double can substitute deterministic outputs for any of them.
//
// A non-zero exit is not an error: Run returns a populated Result and a nil
// error, and the caller decides policy. Run only returns an error when the
// program could not be spawned at all (see ExecError). A timed-out command
// is reported as exit code -1, i.e. in the non-zero-exit class.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single command invocation unless the runner is
// configured otherwise.
const DefaultTimeout = 60 * time.Second

// Result holds the outcome of a completed command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Ok reports whether the command exited with status zero.
func (r Result) Ok() bool {
	return r.ExitCode == 0
}

// Output returns stdout and stderr joined, trimmed of trailing newlines.
// Useful for surfacing validator or installer output verbatim.
func (r Result) Output() string {
	return strings.TrimRight(r.Stdout+r.Stderr, "\n")
}

// ExecError indicates the program could not be spawned (not found,
// permission, fork failure). It is distinct from a non-zero exit, which
// Run reports through Result.ExitCode instead.
type ExecError struct {
	Name string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("exec %s: %v", e.Name, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// Runner is the interface for executing system commands.
type Runner interface {
	// Run executes a command and waits for it to finish.
	Run(ctx context.Context, name string, args ...string) (Result, error)

	// RunInput executes a command with the given string piped to stdin.
	RunInput(ctx context.Context, input, name string, args ...string) (Result, error)

	// LookPath searches for an executable in the directories named by PATH.
	LookPath(file string) (string, error)
}

// SystemRunner implements Runner using os/exec.
type SystemRunner struct {
	// Timeout bounds each invocation. Zero means DefaultTimeout.
	Timeout time.Duration
}

// NewSystemRunner creates a SystemRunner with the default timeout.
func NewSystemRunner() *SystemRunner {
	return &SystemRunner{Timeout: DefaultTimeout}
}

// NewSystemRunnerWithTimeout creates a SystemRunner with a custom timeout.
// Certificate issuance uses this: ACME round trips can take minutes.
func NewSystemRunnerWithTimeout(timeout time.Duration) *SystemRunner {
	return &SystemRunner{Timeout: timeout}
}

// Run executes a command and returns its typed result.
func (r *SystemRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	return r.run(ctx, "", name, args...)
}

// RunInput executes a command with input piped to stdin.
func (r *SystemRunner) RunInput(ctx context.Context, input, name string, args ...string) (Result, error) {
	return r.run(ctx, input, name, args...)
}

func (r *SystemRunner) run(ctx context.Context, input, name string, args ...string) (Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if ctx.Err() != nil {
		// Killed by the deadline: report in the non-zero-exit class.
		res.ExitCode = -1
		return res, nil
	}

	return res, &ExecError{Name: name, Err: err}
}

// LookPath searches for an executable.
func (r *SystemRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
