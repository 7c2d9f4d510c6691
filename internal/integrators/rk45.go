package integrators

import (
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// DormandPrince is the embedded 5(4) pair with first-same-as-last reuse of the
// final stage. It is not safe for concurrent use.
type DormandPrince struct {
	safety   float64
	minScale float64
	maxScale float64

	k1, k2, k3, k4, k5, k6, k7 dynamo.State
	scratch                    dynamo.State

	// FSAL cache: derivative at (lastT, lastX).
	lastX  dynamo.State
	lastT  float64
	cached bool
}

func NewDormandPrince() *DormandPrince {
	return &DormandPrince{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *DormandPrince) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.k5 = make(dynamo.State, n)
		r.k6 = make(dynamo.State, n)
		r.k7 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
		r.lastX = make(dynamo.State, n)
		r.cached = false
	}
}

// Step takes one unconditional fifth-order step.
func (r *DormandPrince) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	return r.stage(dyn, x, t, dt)
}

func (r *DormandPrince) StepAdaptive(dyn dynamo.System, x dynamo.State, t, dt float64, tol dynamo.Tolerance) (dynamo.State, float64, error) {
	xNew := r.stage(dyn, x, t, dt)
	errNorm := r.errorNorm(x, xNew, dt, tol)

	if errNorm > 1 {
		scale := math.Max(r.minScale, r.safety*math.Pow(errNorm, -0.25))
		return xNew, dt * scale, dynamo.ErrStepRejected
	}

	r.remember(xNew, t+dt)

	if errNorm == 0 {
		return xNew, dt * r.maxScale, nil
	}
	scale := math.Min(r.maxScale, r.safety*math.Pow(errNorm, -0.2))
	return xNew, dt * scale, nil
}

// stage evaluates the seven stages, leaving them in k1..k7.
func (r *DormandPrince) stage(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)

	if r.cached && r.lastT == t && equal(r.lastX, x) {
		copy(r.k1, r.k7)
	} else {
		derive(dyn, r.k1, x, t)
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*b21*r.k1[i]
	}
	derive(dyn, r.k2, r.scratch, t+a2*dt)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*(b31*r.k1[i]+b32*r.k2[i])
	}
	derive(dyn, r.k3, r.scratch, t+a3*dt)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*(b41*r.k1[i]+b42*r.k2[i]+b43*r.k3[i])
	}
	derive(dyn, r.k4, r.scratch, t+a4*dt)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*(b51*r.k1[i]+b52*r.k2[i]+b53*r.k3[i]+b54*r.k4[i])
	}
	derive(dyn, r.k5, r.scratch, t+a5*dt)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*(b61*r.k1[i]+b62*r.k2[i]+b63*r.k3[i]+b64*r.k4[i]+b65*r.k5[i])
	}
	derive(dyn, r.k6, r.scratch, t+dt)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*r.k1[i]+c3*r.k3[i]+c4*r.k4[i]+c5*r.k5[i]+c6*r.k6[i])
	}

	derive(dyn, r.k7, xNew, t+dt)
	r.cached = false

	return xNew
}

// errorNorm is the RMS of the embedded error estimate, each component scaled
// by its own tolerance.
func (r *DormandPrince) errorNorm(x, xNew dynamo.State, dt float64, tol dynamo.Tolerance) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*r.k1[i] + dc3*r.k3[i] + dc4*r.k4[i] + dc5*r.k5[i] + dc6*r.k6[i] + dc7*r.k7[i])
		scale := tol.Abs + tol.Rel*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		e := errEst / scale
		sum += e * e
	}
	errNorm := math.Sqrt(sum / float64(n))
	if math.IsNaN(errNorm) {
		return math.Inf(1)
	}
	return errNorm
}

// remember marks k7 as the derivative at an accepted (t, x).
func (r *DormandPrince) remember(x dynamo.State, t float64) {
	copy(r.lastX, x)
	r.lastT = t
	r.cached = true
}

func equal(a, b dynamo.State) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
