// Package physics models point masses under mutual Newtonian gravity.
//
//   - [Body], [Pack], [Unpack]: the per-body view and the flat state layout
//     the integrators work on
//   - [Acceleration]: inverse-square acceleration on one body from two others
//   - [Gravity]: the equations of motion, implementing [dynamo.System]
//
// [Gravity] also implements [dynamo.Hamiltonian] so energy drift can be
// monitored:
//
//	dyn, _ := physics.NewGravity(1.0, []float64{3, 4, 5})
//	e0 := dyn.Energy(physics.Pack(bodies))
//
// No softening is applied. Two bodies at the same point produce an infinite
// acceleration, which the solver reports as a non-finite state.
package physics
