// Package services provides stateless domain services of the fulfillment core.
//
// The package includes:
//   - QueueEstimator: recomputes queue positions, queue-aware wait times and
//     estimated completion times for the active set
//   - StageSchedule: the elapsed-time table that drives automated status changes
package services
