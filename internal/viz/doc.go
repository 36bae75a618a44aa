// Package viz provides terminal views of copula samples.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live sampling view with running dependence estimates
//   - [Picker]: preset menu that opens a live view
//   - [Canvas]: Braille-based pixel canvas for scatter plots
//   - 3D point cloud of three coordinates inside the unit cube
//
// # Key Bindings
//
//	Space - Pause/Resume sampling
//	R     - Clear samples and estimates
//	Tab   - Next coordinate pair
//	C     - Toggle the 3D cloud
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// G starts capturing frames; pressing it again writes copulab.gif to the
// current directory.
package viz
