// Package engine provides TimingEngine, the single owner of the fulfillment
// queue. It keeps one OrderTiming per in-flight order, recomputes positions and
// wait estimates whenever membership changes, and mirrors its state into a
// SnapshotStore after every mutation.
//
// # Lifecycle
//
//	eng := engine.New(store, logger, engine.WithQueueOrder(services.NewestFirst))
//	report, err := eng.Start(ctx) // loads the snapshot; a corrupt one is discarded
//	defer eng.Stop(ctx)
//
// # Concurrency
//
// Every mutation (AddOrder, UpdateStatus, ApplyStatusChanges, Recalculate,
// ClearQueue, Reseed) takes the engine mutex, mutates, recalculates and saves
// the snapshot before releasing it. Readers take the same mutex, so no query
// observes positions that disagree with the current membership.
//
// # Failure semantics
//
// Nothing here is fatal. Unknown orders are logged and ignored, an unreadable
// snapshot resets the queue (reported through LoadReport), and failed snapshot
// writes mark the engine degraded (reported through Health) while the
// in-memory state stays authoritative.
package engine
