// Package kernel provides core domain primitives shared by the order and timing models.
//
// The package includes:
//   - OrderID: an opaque, validated order identifier
//   - Minutes: whole-minute durations used for wait-time arithmetic
//
// Both are immutable values; zero values are invalid and are rejected by Validate.
package kernel
