package sim

import "github.com/san-kum/threebody/internal/dynamo"

// counter tallies derivative evaluations on the way to the real system.
type counter struct {
	dyn   dynamo.System
	calls int
}

func (c *counter) StateDim() int { return c.dyn.StateDim() }

func (c *counter) Derive(x dynamo.State, t float64) dynamo.State {
	c.calls++
	return c.dyn.Derive(x, t)
}

func (c *counter) DeriveInto(dst, x dynamo.State, t float64) {
	c.calls++
	if ip, ok := c.dyn.(dynamo.InPlaceSystem); ok {
		ip.DeriveInto(dst, x, t)
		return
	}
	copy(dst, c.dyn.Derive(x, t))
}
