package solver

import (
	"errors"
	"fmt"

	"github.com/guisoares9/tradespace-designer/internal/physics"
)

// Domain errors for performance evaluation.
var (
	// ErrInvalidConfiguration indicates a structural precondition violation,
	// e.g. zero motors or a throttle outside (0, 1].
	ErrInvalidConfiguration = errors.New("solver: invalid configuration")

	// ErrConvergence indicates the rotor speed iteration did not reach a
	// physical equilibrium.
	ErrConvergence = errors.New("solver: convergence failure")

	// ErrInvalidEnvironment indicates atmospheric inputs outside the
	// validated range.
	ErrInvalidEnvironment = physics.ErrInvalidEnvironment

	// ErrNotHoverable indicates full throttle cannot lift the vehicle.
	ErrNotHoverable = errors.New("solver: thrust at full throttle below weight")
)

// SolveError wraps an error with iteration context.
type SolveError struct {
	Iterations int
	RotorSpeed float64
	Reason     string
	Wrapped    error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("%v: %s (iteration %d, %.1f rpm)", e.Wrapped, e.Reason, e.Iterations, e.RotorSpeed)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfiguration}, args...)...)
}
