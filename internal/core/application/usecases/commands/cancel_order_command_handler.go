package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order in the OrderStore and removes it
// from the timing queue.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	queue      TimingQueue
	notifier   statusNotifier
	now        func() time.Time
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
// publisher may be nil.
func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	queue TimingQueue,
	publisher ports.StatusPublisher,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
		notifier:   newStatusNotifier(publisher, queue, logger),
		now:        time.Now,
	}
}

// Handle cancels the order. Terminal orders cannot be cancelled and an
// unknown order yields errs.ObjectNotFoundError from the repository.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	from, to, err := transitionStoredOrder(ctx, h.uowFactory, cmd.OrderID(), (*order.Order).Cancel)
	if err != nil {
		return err
	}

	if err = h.queue.UpdateStatus(ctx, cmd.OrderID(), to); err != nil {
		return fmt.Errorf("order %s cancelled but queue not updated: %w", cmd.OrderID(), err)
	}

	h.notifier.notify(ctx, cmd.OrderID(), from, to, ChangedByOperator, h.now())
	return nil
}
