// Package quantity provides the physical quantity model used by the
// simulation core:
//
//   - [Scalar]: a real number tagged with physical intent (mass, length, time)
//   - [Vector]: a three component directed quantity (velocity, force)
//   - [Point]: a position in space
//
// All types are immutable values; every operation returns a new value.
//
// # Direction
//
// [FromMagnitude] builds the vector of a given length pointing from one point
// toward another. It is how gravitational force is aimed along the line
// joining two bodies:
//
//	f, err := quantity.FromMagnitude(magnitude, other, self)
//	// f points from self toward other
package quantity
