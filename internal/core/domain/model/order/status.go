package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> Ready ──> Delivered
//	   │            │             │           │
//	   └────────────┴─────────────┴───────────┴──> Cancelled
//
// Forward transitions may skip stages. Completed is a generic terminal status
// accepted from collaborators that do not distinguish delivery from pickup.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status of a newly placed order.
	Pending

	// Confirmed means the order was accepted by the store.
	Confirmed

	// Preparing means the order is being assembled.
	Preparing

	// Ready means the order waits for handoff. It no longer occupies the queue.
	Ready

	// Delivered is the terminal status of a handed-off order.
	Delivered

	// Cancelled is the terminal status of an aborted order.
	Cancelled

	// Completed is a generic terminal status.
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Confirmed: "confirmed",
		Preparing: "preparing",
		Ready:     "ready",
		Delivered: "delivered",
		Cancelled: "cancelled",
		Completed: "completed",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "pending",
		Confirmed: "confirmed",
		Preparing: "preparing",
		Ready:     "ready",
		Delivered: "delivered",
		Cancelled: "cancelled",
		Completed: "completed",
	}
}

// ParseStatus converts the external string representation into a Status.
// Matching is case-insensitive; "canceled" is accepted as an alias of "cancelled".
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "canceled" {
		normalized = "cancelled"
	}

	for status, str := range getValidStatusStrings() {
		if str == normalized {
			return status, nil
		}
	}

	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a known status", s))
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the external name of the status, "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsActive reports whether an order in this status occupies the timing queue.
func (s Status) IsActive() bool {
	return s == Pending || s == Confirmed || s == Preparing
}

// IsTerminal reports whether no further transition can happen.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Completed
}

// IsAutomated reports whether elapsed time alone can advance this status.
func (s Status) IsAutomated() bool {
	return s.IsActive() || s == Ready
}

// AdvanceTo transitions forward along the preparation lifecycle.
//
// Valid transitions are any move to a later stage of
// Pending -> Confirmed -> Preparing -> Ready -> Delivered.
// Cancelled and Completed are not reachable through AdvanceTo; use Cancel or Complete.
func (s Status) AdvanceTo(target Status) (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	forward := target == Confirmed || target == Preparing || target == Ready || target == Delivered
	if s.IsTerminal() || !forward || target <= s {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s cannot advance to %s", s.String(), target.String()),
		)
	}

	return target, nil
}

// Cancel transitions any non-terminal status to Cancelled.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	if s.IsTerminal() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s.String()),
		)
	}

	return Cancelled, nil
}

// Complete transitions any non-terminal status to Delivered.
func (s Status) Complete() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	if s.IsTerminal() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s.String()),
		)
	}

	return Delivered, nil
}
