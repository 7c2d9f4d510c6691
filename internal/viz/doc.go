// Package viz replays a computed trajectory in the terminal.
//
// The package implements a TUI using the Bubble Tea framework:
//
//   - [Player]: frame-by-frame replay of a trajectory with trails
//   - [Canvas]: Braille-based pixel canvas with per-cell colors
//   - [Viewport]: world to sub-pixel mapping
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart
//	←/→   - Step one frame
//	[/]   - Step one second
//	V     - Toggle momentum vectors
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
