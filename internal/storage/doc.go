// Package storage persists simulation runs on disk. Each run is a directory
// holding metadata.json and frames.csv.
package storage
