// Package steps runs an ordered list of named setup steps and reports a
// structured outcome per step. A step whose Check passes is skipped; the
// first Run failure stops the sequence. Outcomes are data, not exceptions:
// callers inspect the records to decide policy.
package steps

import (
	"context"

	"github.com/ksyq12/siteman/internal/logger"
)

// Step is one unit of setup work.
type Step struct {
	// Name identifies the step in outcomes and logs.
	Name string

	// Check reports whether the step is already satisfied. Nil means
	// always run.
	Check func(ctx context.Context) bool

	// Run performs the step.
	Run func(ctx context.Context) error
}

// Outcome records what happened to one step.
type Outcome struct {
	Name    string `json:"name"`
	Skipped bool   `json:"skipped"`
	Err     error  `json:"-"`
}

// Run executes the steps in order. It stops after the first failure; steps
// never attempted produce no outcome.
func Run(ctx context.Context, log *logger.Logger, list []Step) []Outcome {
	outcomes := make([]Outcome, 0, len(list))
	for _, step := range list {
		if step.Check != nil && step.Check(ctx) {
			log.Debugf("step %s: already satisfied", step.Name)
			outcomes = append(outcomes, Outcome{Name: step.Name, Skipped: true})
			continue
		}
		log.Infof("step %s: running", step.Name)
		err := step.Run(ctx)
		outcomes = append(outcomes, Outcome{Name: step.Name, Err: err})
		if err != nil {
			log.Errorf("step %s failed: %v", step.Name, err)
			break
		}
	}
	return outcomes
}

// FirstError returns the error of the first failed outcome, or nil.
func FirstError(outcomes []Outcome) error {
	for _, o := range outcomes {
		if o.Err != nil {
			return o.Err
		}
	}
	return nil
}
