// Package ports defines the contracts between the fulfillment core and its
// collaborators: the OrderStore, the queue snapshot store, the status event
// publisher and the metrics sink.
package ports

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// ErrOrderStatusConflict is returned by OrderRepository.Update when the stored
// status no longer matches the status the change was computed from.
var ErrOrderStatusConflict = errors.New("order status changed concurrently")

// OrderRepository is the OrderStore contract. The core reads orders and writes
// their status; schema and persistence mechanics belong to the adapter.
type OrderRepository interface {
	// Add persists a newly placed order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the current status of an existing order, provided the
	// stored status is still expected. Returns ErrOrderStatusConflict otherwise
	// and errs.ObjectNotFoundError when the order does not exist.
	Update(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// Get retrieves an order by identifier.
	// Returns errs.ObjectNotFoundError when the order does not exist.
	Get(ctx context.Context, id kernel.OrderID) (*order.Order, error)

	// GetAllInAutomatedStatus retrieves orders that elapsed time can still advance:
	// pending, confirmed, preparing and ready. Oldest first.
	GetAllInAutomatedStatus(ctx context.Context) ([]*order.Order, error)

	// GetAllInActiveStatus retrieves orders that occupy the timing queue:
	// pending, confirmed and preparing. Oldest first.
	GetAllInActiveStatus(ctx context.Context) ([]*order.Order, error)
}
