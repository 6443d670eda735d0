// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// Every command follows the same pattern: validation, transaction management,
// persistence in the OrderStore, then notification of the timing queue.
package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/application/engine"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/timing"
	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW manages transactions for order operations.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

// TimingQueue is the part of the timing engine that commands drive.
// *engine.TimingEngine implements it.
type TimingQueue interface {
	AddOrder(ctx context.Context, id kernel.OrderID, itemCount int, createdAt time.Time) (timing.OrderTiming, error)
	UpdateStatus(ctx context.Context, id kernel.OrderID, status order.Status) error
	ApplyStatusChanges(ctx context.Context, changes []engine.StatusChange) (engine.ApplyReport, error)
	Reseed(ctx context.Context, seeds []engine.Seed) (int, error)
	Reconcile(ctx context.Context, seeds []engine.Seed) (engine.ReconcileReport, error)
	Timing(id kernel.OrderID) (timing.OrderTiming, bool)
	ActiveTimings() []timing.OrderTiming
}
