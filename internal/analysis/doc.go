// Package analysis characterizes a computed trajectory.
//
//   - [PowerSpectrum] and [DominantFrequency]: spectral content of one body
//     coordinate
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [NewPhasePortrait]: a body's position against its velocity along one axis
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LyapunovExponent(dyn, integ, x0, dt, duration, 1e-8)
//	if lambda > 0 {
//	    // System is chaotic
//	}
package analysis
