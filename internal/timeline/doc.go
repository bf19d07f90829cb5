// Package timeline implements the playback state machine that drives a year
// cursor through a sorted step sequence: autoplay on load, terminal pause,
// replay-from-end, seek/step/reset, and two tick speeds.
//
// The engine is the sole writer of the cursor. Timer goroutines carry a
// generation token so a tick that fires after pause, seek, or reload is
// discarded instead of mutating replaced state.
package timeline
