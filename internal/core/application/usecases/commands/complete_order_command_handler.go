package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// CompleteOrderCommandHandler marks an order delivered ahead of the
// automation schedule and removes it from the timing queue.
type CompleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	queue      TimingQueue
	notifier   statusNotifier
	now        func() time.Time
}

// NewCompleteOrderCommandHandler creates a handler for explicit handoffs.
// publisher may be nil.
func NewCompleteOrderCommandHandler(
	uowFactory OrderUoWFactory,
	queue TimingQueue,
	publisher ports.StatusPublisher,
	logger *slog.Logger,
) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
		notifier:   newStatusNotifier(publisher, queue, logger),
		now:        time.Now,
	}
}

// Handle marks the order delivered. Terminal orders are refused with a
// ValueIsInvalidError.
func (h *CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	from, to, err := transitionStoredOrder(ctx, h.uowFactory, cmd.OrderID(), (*order.Order).Complete)
	if err != nil {
		return err
	}

	if err = h.queue.UpdateStatus(ctx, cmd.OrderID(), to); err != nil {
		return fmt.Errorf("order %s completed but queue not updated: %w", cmd.OrderID(), err)
	}

	h.notifier.notify(ctx, cmd.OrderID(), from, to, ChangedByOperator, h.now())
	return nil
}
