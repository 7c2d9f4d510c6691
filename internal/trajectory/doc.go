// Package trajectory turns a fine-grid solution into render-rate frames.
//
// A Plan fixes the relationship between the integration grid and the output
// frame rate. The Collector observes the solve and keeps one sample per
// frame, Extract reshapes those samples into an immutable per-body
// Trajectory, and Window cuts the trailing slice of a body's path that a
// renderer draws as its trail.
package trajectory
