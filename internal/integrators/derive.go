package integrators

import "github.com/san-kum/threebody/internal/dynamo"

// derive writes f(x, t) into dst, avoiding an allocation when the system
// supports it.
func derive(dyn dynamo.System, dst, x dynamo.State, t float64) {
	if ip, ok := dyn.(dynamo.InPlaceSystem); ok {
		ip.DeriveInto(dst, x, t)
		return
	}
	copy(dst, dyn.Derive(x, t))
}

func grow(buf dynamo.State, n int) dynamo.State {
	if len(buf) != n {
		return make(dynamo.State, n)
	}
	return buf
}
