package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Default is the integrator used when none is named.
const Default = "dopri5"

var registry = map[string]func() dynamo.Integrator{
	"dopri5":   func() dynamo.Integrator { return NewDormandPrince() },
	"rk4":      func() dynamo.Integrator { return NewRK4() },
	"verlet":   func() dynamo.Integrator { return NewVerlet() },
	"leapfrog": func() dynamo.Integrator { return NewLeapfrog() },
	"euler":    func() dynamo.Integrator { return NewEuler() },
}

// New returns a fresh integrator by name. Integrators carry scratch state, so
// each solve gets its own.
func New(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = Default
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

// Known reports whether name is registered.
func Known(name string) bool {
	_, ok := registry[name]
	return ok || name == ""
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
