package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetUnfinishedOrdersQueryIsNotConstructed = errors.New(
		"GetUnfinishedOrdersQuery must be created via NewGetUnfinishedOrdersQuery constructor",
	)
)

// GetUnfinishedOrdersQuery retrieves every stored order that has not reached a
// terminal status, straight from the OrderStore.
//
// Example:
//
//	query := NewGetUnfinishedOrdersQuery()
//	handler := NewGetUnfinishedOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get unfinished orders: %w", err)
//	}
//
//	for _, o := range orders {
//	    fmt.Printf("Order %s: %s, %d items\n", o.ID, o.Status, o.ItemCount)
//	}
type GetUnfinishedOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUnfinishedOrdersQuery creates the parameterless query.
func NewGetUnfinishedOrdersQuery() GetUnfinishedOrdersQuery {
	return GetUnfinishedOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetUnfinishedOrdersQueryIsNotConstructed if validation fails.
func (q GetUnfinishedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUnfinishedOrdersQueryIsNotConstructed)
}

// GetUnfinishedOrdersQueryResponse is the stored view of an order.
type GetUnfinishedOrdersQueryResponse struct {
	ID        kernel.OrderID
	ItemCount int
	Status    order.Status
	CreatedAt time.Time
}
