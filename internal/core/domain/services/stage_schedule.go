package services

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// Stage is reached once the given number of minutes has elapsed since the order
// was created.
type Stage struct {
	Status order.Status
	After  kernel.Minutes
}

// StageSchedule maps elapsed time since creation to the status an order should hold.
//
// Every threshold is measured from creation, not from the previous transition,
// so an order that was not scanned for a while jumps straight to the furthest
// preparation stage it has earned. Handoff (Delivered) is the exception: it is
// only granted to orders that are already Ready, which keeps at least one scan
// between an order becoming Ready and leaving the store.
type StageSchedule struct {
	stages []Stage
}

// DefaultStageSchedule is pending -> confirmed at 3 minutes, preparing at 6,
// ready at 10 and delivered at 15.
func DefaultStageSchedule() StageSchedule {
	return StageSchedule{stages: []Stage{
		{Status: order.Confirmed, After: 3},
		{Status: order.Preparing, After: 6},
		{Status: order.Ready, After: 10},
		{Status: order.Delivered, After: 15},
	}}
}

// NewStageSchedule validates that stages advance in lifecycle order with
// strictly increasing thresholds.
func NewStageSchedule(stages ...Stage) (StageSchedule, error) {
	if len(stages) == 0 {
		return StageSchedule{}, errs.NewValueIsRequiredError("stages")
	}

	prev := Stage{Status: order.Pending, After: 0}
	for _, st := range stages {
		if _, err := prev.Status.AdvanceTo(st.Status); err != nil {
			return StageSchedule{}, err
		}
		if st.After <= prev.After && prev.Status != order.Pending || st.After < 0 {
			return StageSchedule{}, errs.NewValueIsInvalidErrorWithCause(
				"stage threshold",
				fmt.Errorf("%s after %d minutes does not follow %s", st.Status, st.After, prev.Status),
			)
		}
		prev = st
	}

	return StageSchedule{stages: append([]Stage(nil), stages...)}, nil
}

// Stages returns a copy of the schedule.
func (s StageSchedule) Stages() []Stage {
	return append([]Stage(nil), s.stages...)
}

// Next returns the status an order in current should move to after elapsed
// minutes, and whether that differs from current. It yields at most one
// transition per call.
func (s StageSchedule) Next(current order.Status, elapsed kernel.Minutes) (order.Status, bool) {
	if !current.IsAutomated() {
		return current, false
	}

	target := current
	for _, st := range s.stages {
		if elapsed < st.After {
			break
		}
		if st.Status == order.Delivered && current != order.Ready {
			continue
		}
		if st.Status > target {
			target = st.Status
		}
	}

	return target, target != current
}
