// Package timing provides OrderTiming, the per-order record kept by the timing
// engine, together with the wait-time rules that derive its immutable base wait
// and the display format used by presentation collaborators.
//
// Key business rules:
//   - Base wait time is derived once from item count: fewer than 5 items take a
//     random 3..5 minutes, 5..9 take 10, 10..19 take 15, 20 or more take 20
//   - Item count, base wait time and start time never change
//   - Actual wait time, queue position and estimated completion are derived by
//     the queue estimator and are meaningful only while the order is active
package timing
