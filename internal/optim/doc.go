// Package optim sweeps simulation parameters over a grid and ranks the runs
// by a diagnostic, e.g. the tolerance needed to keep energy drift below a
// bound.
package optim
