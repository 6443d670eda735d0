package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrReseedQueueCommandIsNotConstructed = errors.New(
	"ReseedQueueCommand must be created via NewReseedQueueCommand constructor",
)

// ReseedQueueCommand rebuilds the timing queue from the orders the OrderStore
// holds in an active status. It is issued at startup when the queue snapshot
// was missing or had to be discarded.
type ReseedQueueCommand struct {
	guard guard.ConstructorGuard
}

// NewReseedQueueCommand builds the command.
func NewReseedQueueCommand() ReseedQueueCommand {
	return ReseedQueueCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c ReseedQueueCommand) Validate() error {
	return c.guard.Validate(ErrReseedQueueCommandIsNotConstructed)
}
