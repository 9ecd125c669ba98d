// Package viz renders charge systems and field lines in the terminal.
//
// Rendering uses a braille-dot canvas (2x4 sub-pixels per cell) for
// smooth field line curves at terminal resolution. [Scene] composes the
// canvas drawing; [Model] is the bubbletea program for the live view
// where charges can be dragged and trace settings tuned, mirroring the
// slider controls of the served web UI.
package viz
