// Package field provides the electrostatic primitives for field line
// simulation.
//
// The package defines the fundamental types for evaluating the Coulomb
// field of a set of point charges:
//
//   - [Vec]: cartesian 3-vector (simulation happens in the z=0 plane)
//   - [Charge]: point charge with position and signed magnitude
//   - [System]: charge collection with superposed field evaluation
//
// # Example
//
//	sys := field.Dipole(5.0, 1.0)
//	e := sys.FieldAt(field.Vec{1, 2, 0})
//
// # Thread Safety
//
// A System is safe for concurrent reads. Mutating charges while tracing
// is not synchronized; surfaces that do so (the TUI, the web server)
// serialize access themselves.
package field
