// Package viz renders a running simulation in the terminal.
//
// [Model] is a Bubble Tea program that advances a [sim.Simulation] a few
// ticks per frame and draws the resulting snapshot on a braille [Canvas]
// through a rotatable perspective [Camera]. [Picker] wraps it with a
// scenario menu.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	Q     - Quit
//	X/Y/Z - Rotate the view (shift reverses)
//	+/-   - Zoom
//	R     - Reset the view
//	F     - Refit the view to the current extent
//	T     - Cycle colour themes
//	?     - Toggle help
//
// Bodies are drawn with their radii inflated by [RadiusMultiplier] and
// listed in the side panel in the colour of their display hint.
package viz
