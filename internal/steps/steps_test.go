package steps

import (
	"context"
	"errors"
	"testing"

	"github.com/ksyq12/siteman/internal/logger"
)

func TestRun_AllSteps(t *testing.T) {
	var ran []string
	list := []Step{
		{Name: "first", Run: func(ctx context.Context) error {
			ran = append(ran, "first")
			return nil
		}},
		{Name: "second", Run: func(ctx context.Context) error {
			ran = append(ran, "second")
			return nil
		}},
	}

	outcomes := Run(context.Background(), logger.Nop(), list)

	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if len(ran) != 2 || ran[0] != "first" || ran[1] != "second" {
		t.Errorf("steps ran out of order: %v", ran)
	}
	if err := FirstError(outcomes); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRun_CheckSkips(t *testing.T) {
	ran := false
	list := []Step{
		{
			Name:  "satisfied",
			Check: func(ctx context.Context) bool { return true },
			Run: func(ctx context.Context) error {
				ran = true
				return nil
			},
		},
	}

	outcomes := Run(context.Background(), logger.Nop(), list)

	if ran {
		t.Error("satisfied step should not run")
	}
	if !outcomes[0].Skipped {
		t.Error("outcome should be marked skipped")
	}
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	secondRan := false
	list := []Step{
		{Name: "fails", Run: func(ctx context.Context) error { return boom }},
		{Name: "never", Run: func(ctx context.Context) error {
			secondRan = true
			return nil
		}},
	}

	outcomes := Run(context.Background(), logger.Nop(), list)

	if secondRan {
		t.Error("steps after a failure must not run")
	}
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if !errors.Is(FirstError(outcomes), boom) {
		t.Errorf("FirstError = %v", FirstError(outcomes))
	}
}
