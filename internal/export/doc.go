// Package export writes trajectories as JSON, CSV and SVG, and reads the
// CSV form back.
package export
