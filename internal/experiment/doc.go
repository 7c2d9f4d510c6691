// Package experiment runs a configured simulation end to end: validation,
// integration on the fine grid, downsampling to frames and the conservation
// diagnostics.
package experiment
