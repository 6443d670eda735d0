package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCompleteOrderCommandIsNotConstructed = errors.New(
	"CompleteOrderCommand must be created via NewCompleteOrderCommand constructor",
)

// CompleteOrderCommand records that an order was handed to the customer.
// Any non-terminal order can be completed; it ends in the delivered status.
type CompleteOrderCommand struct {
	orderID kernel.OrderID

	guard guard.ConstructorGuard
}

// NewCompleteOrderCommand validates orderID and builds the command.
func NewCompleteOrderCommand(orderID kernel.OrderID) (CompleteOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CompleteOrderCommand{}, err
	}

	return CompleteOrderCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrCompleteOrderCommandIsNotConstructed)
}

// OrderID returns the order that was handed off.
func (c CompleteOrderCommand) OrderID() kernel.OrderID {
	return c.orderID
}
