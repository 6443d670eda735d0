package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the OrderStore record of a placed order. The fulfillment core reads
// and advances its status; everything else about the order belongs to the
// order-placement collaborator.
//
// Order follows these invariants:
//   - Must have a valid identifier
//   - Item count is positive and never changes
//   - Creation time is set and never changes
//   - Status transitions follow the Status state machine
type Order struct {
	id        kernel.OrderID
	createdAt time.Time
	itemCount int
	status    Status

	isConstructed bool
}

// NewOrder creates a Pending order.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewOrderID(), 3, time.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(id kernel.OrderID, itemCount int, createdAt time.Time) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setItemCount(itemCount),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order loaded from persistence.
func RestoreOrder(id kernel.OrderID, itemCount int, createdAt time.Time, status Status) (*Order, error) {
	o, err := NewOrder(id, itemCount, createdAt)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	o.status = status

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order identifier.
func (o *Order) ID() kernel.OrderID {
	return o.id
}

// CreatedAt returns the time the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// ItemCount returns the total units across all line items.
func (o *Order) ItemCount() int {
	return o.itemCount
}

// Status returns the current status.
func (o *Order) Status() Status {
	return o.status
}

// MinutesSinceCreated returns whole minutes elapsed since placement.
func (o *Order) MinutesSinceCreated(now time.Time) kernel.Minutes {
	return kernel.FloorMinutes(now.Sub(o.createdAt))
}

// AdvanceTo moves the order forward in its preparation lifecycle.
func (o *Order) AdvanceTo(target Status) error {
	newStatus, err := o.status.AdvanceTo(target)
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Cancel aborts a non-terminal order.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Complete hands off a non-terminal order, marking it Delivered.
func (o *Order) Complete() error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

func (o *Order) setID(id kernel.OrderID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setItemCount(itemCount int) error {
	if itemCount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("itemCount is invalid", fmt.Errorf("%d is not greater than 0", itemCount))
	}
	o.itemCount = itemCount
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = createdAt
	return nil
}
