package commands

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrAdvanceStatusesCommandIsNotConstructed = errors.New(
		"AdvanceStatusesCommand must be created via NewAdvanceStatusesCommand constructor",
	)
)

// AdvanceStatusesCommand triggers one automation tick: every order in an
// automated status is moved to the stage its age calls for.
//
// Example:
//
//	cmd, _ := NewAdvanceStatusesCommand(time.Now())
//	report, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    logger.ErrorContext(ctx, "tick finished with failures", "failed", report.Failed, "error", err)
//	}
type AdvanceStatusesCommand struct {
	now time.Time

	guard guard.ConstructorGuard
}

// NewAdvanceStatusesCommand creates a tick evaluated at now.
func NewAdvanceStatusesCommand(now time.Time) (AdvanceStatusesCommand, error) {
	if now.IsZero() {
		return AdvanceStatusesCommand{}, errs.NewValueIsRequiredError("now")
	}

	return AdvanceStatusesCommand{
		now:   now,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceStatusesCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceStatusesCommandIsNotConstructed)
}

// Now returns the instant the tick is evaluated at.
func (c AdvanceStatusesCommand) Now() time.Time {
	return c.now
}
