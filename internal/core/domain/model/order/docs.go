// Package order provides the order record mirrored in the OrderStore and the
// status state machine that governs its preparation lifecycle.
//
// The package includes:
//   - Order: identity, creation time, item count and current status
//   - Status: the lifecycle state machine
//
// Key business rules:
//   - Orders must have a valid identifier, a creation time and at least one item
//   - Status moves forward only: Pending -> Confirmed -> Preparing -> Ready -> Delivered
//   - Cancelled is reachable from any non-terminal status by an explicit action
//   - Delivered, Cancelled and Completed are terminal
//   - Item count and creation time never change after construction
package order
