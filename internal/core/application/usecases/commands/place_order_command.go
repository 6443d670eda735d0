package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
	ErrItemCountIsInvalid = errors.New("item count must be greater than 0")
)

// PlaceOrderCommand represents a newly placed order entering fulfillment.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(kernel.NewOrderID(), 7, time.Time{})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewPlaceOrderCommandHandler(uowFactory, timingEngine, publisher, logger)
//	timing, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.OrderID
	itemCount int
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand validates the order data. A zero createdAt is resolved
// to the handling time.
func NewPlaceOrderCommand(orderID kernel.OrderID, itemCount int, createdAt time.Time) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setItemCount(itemCount),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// OrderID returns the order identifier, generated when none was supplied.
func (c PlaceOrderCommand) OrderID() kernel.OrderID {
	return c.orderID
}

// ItemCount returns the number of items ordered.
func (c PlaceOrderCommand) ItemCount() int {
	return c.itemCount
}

// CreatedAt returns the placement time; zero means now.
func (c PlaceOrderCommand) CreatedAt() time.Time {
	return c.createdAt
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setItemCount(itemCount int) error {
	if itemCount <= 0 {
		return ErrItemCountIsInvalid
	}

	c.itemCount = itemCount
	return nil
}
