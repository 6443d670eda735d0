package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetQueueQueryIsNotConstructed = errors.New(
		"GetQueueQuery must be created via NewGetQueueQuery constructor",
	)
)

// GetQueueQuery lists the active queue for the admin table.
type GetQueueQuery struct {
	guard guard.ConstructorGuard
}

// NewGetQueueQuery builds the query.
func NewGetQueueQuery() GetQueueQuery {
	return GetQueueQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetQueueQuery) Validate() error {
	return q.guard.Validate(ErrGetQueueQueryIsNotConstructed)
}

// GetQueueQueryResponse is one row of the queue, in service order.
type GetQueueQueryResponse struct {
	OrderID             kernel.OrderID
	ItemCount           int
	Status              order.Status
	StartTime           time.Time
	QueuePosition       int
	BaseWaitMinutes     kernel.Minutes
	ActualWaitMinutes   kernel.Minutes
	RemainingMinutes    kernel.Minutes
	Display             string
	EstimatedCompletion time.Time
}
