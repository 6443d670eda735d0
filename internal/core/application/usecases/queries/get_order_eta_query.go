package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderETAQueryIsNotConstructed = errors.New(
		"GetOrderETAQuery must be created via NewGetOrderETAQuery constructor",
	)
)

// GetOrderETAQuery asks for the combined progress view of one order.
//
//nolint:recvcheck //using for validation
type GetOrderETAQuery struct {
	orderID kernel.OrderID

	guard guard.ConstructorGuard
}

// NewGetOrderETAQuery creates the query for orderID.
func NewGetOrderETAQuery(orderID kernel.OrderID) (GetOrderETAQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderETAQuery{}, err
	}

	return GetOrderETAQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderETAQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderETAQueryIsNotConstructed)
}

// OrderID returns the order to look up.
func (q GetOrderETAQuery) OrderID() kernel.OrderID {
	return q.orderID
}

// GetOrderETAQueryResponse is what a customer screen needs for one order.
// Queued is false once the order left the queue; RemainingMinutes and
// QueuePosition are then zero.
type GetOrderETAQueryResponse struct {
	OrderID             kernel.OrderID
	Status              order.Status
	Queued              bool
	QueuePosition       int
	QueueLength         int
	RemainingMinutes    kernel.Minutes
	Display             string
	EstimatedCompletion time.Time
}
