package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrReconcileQueueCommandIsNotConstructed = errors.New(
	"ReconcileQueueCommand must be created via NewReconcileQueueCommand constructor",
)

// ReconcileQueueCommand aligns a queue restored from its snapshot with the
// OrderStore. It is issued at startup when a snapshot was restored, to pick up
// orders stored while the queue could not take them and status changes the
// snapshot missed.
type ReconcileQueueCommand struct {
	guard guard.ConstructorGuard
}

// NewReconcileQueueCommand builds the command.
func NewReconcileQueueCommand() ReconcileQueueCommand {
	return ReconcileQueueCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c ReconcileQueueCommand) Validate() error {
	return c.guard.Validate(ErrReconcileQueueCommandIsNotConstructed)
}
