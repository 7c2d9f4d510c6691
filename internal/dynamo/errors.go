package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates a parameter rejected before integration.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrIntegration indicates the integrator could not produce a complete,
	// trustworthy solution.
	ErrIntegration = errors.New("dynamo: integration failed")

	// ErrNonFinite indicates a NaN or Inf in a state, typically from two
	// bodies passing through the same point.
	ErrNonFinite = errors.New("dynamo: non-finite state (NaN or Inf detected)")

	// ErrStepTooSmall indicates the adaptive step shrank below the
	// resolvable minimum while trying to meet tolerance.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrMaxSteps indicates the step budget ran out before the span ended.
	ErrMaxSteps = errors.New("dynamo: step budget exhausted")

	// ErrStepRejected is returned by AdaptiveIntegrator.StepAdaptive when the
	// local error estimate exceeds tolerance. It never escapes a solve.
	ErrStepRejected = errors.New("dynamo: step rejected")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// ConfigError names the offending parameter.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// Configf builds a ConfigError for field.
func Configf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IntegrationError wraps an error with simulation context.
type IntegrationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integration failed at step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

// Unwrap exposes both the cause and ErrIntegration to errors.Is.
func (e *IntegrationError) Unwrap() []error {
	return []error{ErrIntegration, e.Wrapped}
}
