package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/application/engine"
)

// ReseedQueueCommandHandler replaces the timing queue with the active orders
// of the OrderStore.
type ReseedQueueCommandHandler struct {
	uowFactory OrderUoWFactory
	queue      TimingQueue
}

// NewReseedQueueCommandHandler creates the startup reseed handler.
func NewReseedQueueCommandHandler(uowFactory OrderUoWFactory, queue TimingQueue) ReseedQueueCommandHandler {
	return ReseedQueueCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
	}
}

// Handle returns the resulting queue length. Orders the queue rejects are
// reported in the error while the rest are queued.
func (h *ReseedQueueCommandHandler) Handle(ctx context.Context, cmd ReseedQueueCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	orders, err := h.uowFactory.Create().OrderRepository().GetAllInActiveStatus(ctx)
	if err != nil {
		return 0, fmt.Errorf("list orders in active status: %w", err)
	}

	seeds := make([]engine.Seed, 0, len(orders))
	for _, o := range orders {
		seeds = append(seeds, engine.Seed{
			OrderID:   o.ID(),
			ItemCount: o.ItemCount(),
			CreatedAt: o.CreatedAt(),
			Status:    o.Status(),
		})
	}

	return h.queue.Reseed(ctx, seeds)
}
