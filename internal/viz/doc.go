// Package viz draws a running ball pit in the terminal.
//
// Bodies are projected through the configured camera onto a braille [Canvas]
// (2x4 dots per cell), painted back to front and shaded by depth. The Bubble
// Tea [Model] feeds terminal input back to the simulation:
//
//   - mouse motion over the canvas moves the attraction target
//   - leaving the canvas clears it
//   - focus and blur drive the visibility gate
//   - resizing the terminal resizes the bounding volume
//
// # Key Bindings
//
//	Space/P - Pause/Resume simulation
//	R       - Restart
//	T       - Cycle color themes
//	?       - Show help overlay
//	Q       - Quit
package viz
