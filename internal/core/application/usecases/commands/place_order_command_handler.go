package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/timing"
	"fulfillment/internal/core/ports"
)

// PlaceOrderCommandHandler stores a new order and enters it into the timing queue.
//
// The order is committed to the OrderStore first. If the queue then refuses the
// order (for example because the engine is not started yet) the error is
// returned; the stored order enters the queue at the next start, through the
// reseed or the reconciliation that follows loading the queue.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	queue      TimingQueue
	notifier   statusNotifier
	now        func() time.Time
}

// NewPlaceOrderCommandHandler creates a handler for order placement.
// publisher may be nil.
func NewPlaceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	queue TimingQueue,
	publisher ports.StatusPublisher,
	logger *slog.Logger,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
		notifier:   newStatusNotifier(publisher, queue, logger),
		now:        time.Now,
	}
}

// Handle persists the order in pending status and returns its initial timing.
func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (timing.OrderTiming, error) {
	if err := cmd.Validate(); err != nil {
		return timing.OrderTiming{}, err
	}

	createdAt := cmd.CreatedAt()
	if createdAt.IsZero() {
		createdAt = h.now()
	}

	placed, err := order.NewOrder(cmd.OrderID(), cmd.ItemCount(), createdAt)
	if err != nil {
		return timing.OrderTiming{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return timing.OrderTiming{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, placed); err != nil {
		return timing.OrderTiming{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return timing.OrderTiming{}, err
	}

	t, err := h.queue.AddOrder(ctx, placed.ID(), placed.ItemCount(), placed.CreatedAt())
	if err != nil {
		return timing.OrderTiming{}, fmt.Errorf("order %s stored but not queued: %w", placed.ID(), err)
	}

	h.notifier.notify(ctx, placed.ID(), order.Unknown, placed.Status(), ChangedByOperator, createdAt)

	return t, nil
}
