// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: flat vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator], [AdaptiveIntegrator]: numerical steppers
//   - [Observer]: receives solution samples on the evaluation grid
//   - [Metric]: diagnostics evaluated over a solution
//
// # Errors
//
// Invalid input surfaces as [*ConfigError] (matching [ErrInvalidConfig]);
// anything that goes wrong once integration has started surfaces as
// [*IntegrationError] (matching [ErrIntegration] and its cause).
//
//	if errors.Is(err, dynamo.ErrNonFinite) {
//	    // bodies collided
//	}
package dynamo
