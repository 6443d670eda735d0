package timing

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ErrOrderTimingIsNotConstructed is returned when an OrderTiming was not created
// through NewOrderTiming or RestoreOrderTiming.
var ErrOrderTimingIsNotConstructed = errors.New("OrderTiming must be created via NewOrderTiming constructor")

// OrderTiming tracks the wait estimate of one order in the fulfillment queue.
//
// The value is copied freely: the engine keeps its own instances and hands
// copies to readers, so accessors never expose shared state.
type OrderTiming struct {
	orderID      kernel.OrderID
	itemCount    int
	baseWaitTime kernel.Minutes
	startTime    time.Time

	status                  order.Status
	actualWaitTime          kernel.Minutes
	queuePosition           int
	estimatedCompletionTime time.Time

	isConstructed bool
}

// NewOrderTiming creates a pending timing and derives its base wait time.
func NewOrderTiming(id kernel.OrderID, itemCount int, startTime time.Time, rnd RandomSource) (*OrderTiming, error) {
	t := &OrderTiming{
		status:        order.Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		t.setOrderID(id),
		t.setStartTime(startTime),
	); err != nil {
		return nil, err
	}

	base, err := BaseWaitTime(itemCount, rnd)
	if err != nil {
		return nil, err
	}
	t.itemCount = itemCount
	t.baseWaitTime = base

	return t, nil
}

// RestoreOrderTiming rebuilds a timing from a persisted snapshot. The base wait
// time must agree with the item count tier, otherwise the record is rejected.
func RestoreOrderTiming(
	id kernel.OrderID,
	itemCount int,
	baseWaitTime kernel.Minutes,
	startTime time.Time,
	status order.Status,
	actualWaitTime kernel.Minutes,
	queuePosition int,
	estimatedCompletionTime time.Time,
) (*OrderTiming, error) {
	t := &OrderTiming{isConstructed: true}

	if err := errors.Join(
		t.setOrderID(id),
		t.setStartTime(startTime),
		status.Validate(),
		validateBaseWaitTime(itemCount, baseWaitTime),
	); err != nil {
		return nil, err
	}

	if actualWaitTime < 0 || queuePosition < 0 {
		return nil, errs.NewValueIsInvalidError("derived wait fields must not be negative")
	}

	t.itemCount = itemCount
	t.baseWaitTime = baseWaitTime
	t.status = status
	t.actualWaitTime = actualWaitTime
	t.queuePosition = queuePosition
	t.estimatedCompletionTime = estimatedCompletionTime

	return t, nil
}

// Validate ensures the timing was properly constructed.
func (t *OrderTiming) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrOrderTimingIsNotConstructed
	}
	return nil
}

// OrderID returns the order the timing belongs to.
func (t *OrderTiming) OrderID() kernel.OrderID { return t.orderID }

// ItemCount returns the number of items the base wait was derived from.
func (t *OrderTiming) ItemCount() int { return t.itemCount }

// BaseWaitTime returns the preparation time of this order alone.
func (t *OrderTiming) BaseWaitTime() kernel.Minutes { return t.baseWaitTime }

// StartTime returns when the order was placed.
func (t *OrderTiming) StartTime() time.Time { return t.startTime }

// Status returns the last recorded order status.
func (t *OrderTiming) Status() order.Status { return t.status }

// ActualWaitTime returns the base wait plus the waits of every order served first.
func (t *OrderTiming) ActualWaitTime() kernel.Minutes { return t.actualWaitTime }

// QueuePosition returns the rank in the queue, 1 for the oldest order, 0 once inactive.
func (t *OrderTiming) QueuePosition() int { return t.queuePosition }

// EstimatedCompletionTime returns the instant of the last recalculation plus the actual wait.
func (t *OrderTiming) EstimatedCompletionTime() time.Time { return t.estimatedCompletionTime }

// IsActive reports whether the timing occupies the queue.
func (t *OrderTiming) IsActive() bool {
	return t.status.IsActive()
}

// RemainingTime returns whole minutes until the estimated completion, never negative.
// Inactive timings have no remaining time.
func (t *OrderTiming) RemainingTime(now time.Time) kernel.Minutes {
	if !t.IsActive() {
		return 0
	}
	return max(0, kernel.CeilMinutes(t.estimatedCompletionTime.Sub(now)))
}

// ApplyEstimate stores the result of a queue recalculation.
func (t *OrderTiming) ApplyEstimate(actualWaitTime kernel.Minutes, queuePosition int, estimatedCompletionTime time.Time) {
	t.actualWaitTime = actualWaitTime
	t.queuePosition = queuePosition
	t.estimatedCompletionTime = estimatedCompletionTime
}

// SetStatus records a status change. Leaving the active set clears the queue
// position; the last estimate is kept for the archive.
func (t *OrderTiming) SetStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	t.status = status
	if !status.IsActive() {
		t.queuePosition = 0
	}
	return nil
}

func (t *OrderTiming) setOrderID(id kernel.OrderID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.orderID = id
	return nil
}

func (t *OrderTiming) setStartTime(startTime time.Time) error {
	if startTime.IsZero() {
		return errs.NewValueIsRequiredError("startTime")
	}
	t.startTime = startTime
	return nil
}
