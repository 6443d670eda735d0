package services

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/timing"
	"fulfillment/internal/pkg/errs"
)

// QueueOrder selects which end of the active set is served first.
type QueueOrder int

const (
	// NewestFirst assumes the most recently placed order needs only its own base
	// wait while every older order accumulates the waits of all newer ones.
	NewestFirst QueueOrder = iota

	// OldestFirst is the first-come first-served alternative.
	OldestFirst
)

// ParseQueueOrder accepts "lifo" and "fifo" (case-insensitive). Empty means lifo.
func ParseQueueOrder(s string) (QueueOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lifo":
		return NewestFirst, nil
	case "fifo":
		return OldestFirst, nil
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause("queue order", fmt.Errorf("%q is neither lifo nor fifo", s))
	}
}

// String returns the configuration spelling of o.
func (o QueueOrder) String() string {
	if o == OldestFirst {
		return "fifo"
	}
	return "lifo"
}

// QueueEstimator derives the queue-dependent fields of active timings.
//
// For the active set sorted in service order o0..o(n-1):
//
//	actual(o0) = base(o0)
//	actual(oi) = actual(oi-1) + base(oi)
//	eta(oi)    = now + actual(oi)
//
// The oldest order always holds position 1 and the newest position n.
type QueueEstimator struct {
	order QueueOrder
}

// NewQueueEstimator creates an estimator for the given service order.
func NewQueueEstimator(order QueueOrder) QueueEstimator {
	return QueueEstimator{order: order}
}

// Order returns the configured service order.
func (e QueueEstimator) Order() QueueOrder {
	return e.order
}

// Estimate recalculates every active timing in place and returns the active
// timings in service order. Inactive timings are skipped and left untouched.
// The result depends only on the input set and now, never on slice order.
func (e QueueEstimator) Estimate(timings []*timing.OrderTiming, now time.Time) []*timing.OrderTiming {
	active := make([]*timing.OrderTiming, 0, len(timings))
	for _, t := range timings {
		if t != nil && t.IsActive() {
			active = append(active, t)
		}
	}

	slices.SortStableFunc(active, e.compare)

	n := len(active)
	for i, t := range active {
		actual := t.BaseWaitTime()
		if i > 0 {
			actual = active[i-1].ActualWaitTime() + t.BaseWaitTime()
		}

		position := n - i
		if e.order == OldestFirst {
			position = i + 1
		}

		t.ApplyEstimate(actual, position, now.Add(actual.Duration()))
	}

	return active
}

// compare orders timings for service. Equal start times fall back to the order
// identifier so that recalculation stays deterministic.
func (e QueueEstimator) compare(a, b *timing.OrderTiming) int {
	c := a.StartTime().Compare(b.StartTime())
	if e.order == NewestFirst {
		c = -c
	}
	if c != 0 {
		return c
	}
	return strings.Compare(a.OrderID().String(), b.OrderID().String())
}
