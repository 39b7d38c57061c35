package cli

import (
	"context"
	"errors"

	perr "github.com/matzehuels/promiscuity/pkg/errors"
)

// Process exit codes. Scripts running over a corpus can tell a bad input
// apart from an annotation with no tree or a hit budget.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitInvalidInput = 2
	ExitInconsistent = 3
	ExitBudget       = 4
	ExitInterrupted  = 130 // shell convention for SIGINT
)

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	switch perr.GetCode(err) {
	case perr.ErrCodeInvalidInput, perr.ErrCodeInvalidAnnotation, perr.ErrCodeInvalidConfig, perr.ErrCodeInvalidFormat:
		return ExitInvalidInput
	case perr.ErrCodeInconsistent:
		return ExitInconsistent
	case perr.ErrCodeBudgetExceeded, perr.ErrCodeBoundExceeded:
		return ExitBudget
	}
	return ExitFailure
}
