package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/application/engine"
	"fulfillment/internal/core/domain/model/kernel"
)

// ReconcileQueueCommandHandler brings a restored timing queue in line with the
// OrderStore while keeping the restored estimates of orders that match.
type ReconcileQueueCommandHandler struct {
	uowFactory OrderUoWFactory
	queue      TimingQueue
}

// NewReconcileQueueCommandHandler creates the startup reconciliation handler.
func NewReconcileQueueCommandHandler(uowFactory OrderUoWFactory, queue TimingQueue) ReconcileQueueCommandHandler {
	return ReconcileQueueCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
	}
}

// Handle adds stored active orders the queue lacks and moves queued orders to
// the status the OrderStore holds for them. Queued orders the store does not
// know are reported in the error and stay queued.
func (h *ReconcileQueueCommandHandler) Handle(ctx context.Context, cmd ReconcileQueueCommand) (engine.ReconcileReport, error) {
	if err := cmd.Validate(); err != nil {
		return engine.ReconcileReport{}, err
	}

	repo := h.uowFactory.Create().OrderRepository()
	orders, err := repo.GetAllInActiveStatus(ctx)
	if err != nil {
		return engine.ReconcileReport{}, fmt.Errorf("list orders in active status: %w", err)
	}

	stored := make(map[kernel.OrderID]struct{}, len(orders))
	seeds := make([]engine.Seed, 0, len(orders))
	for _, o := range orders {
		stored[o.ID()] = struct{}{}
		seeds = append(seeds, engine.Seed{
			OrderID:   o.ID(),
			ItemCount: o.ItemCount(),
			CreatedAt: o.CreatedAt(),
			Status:    o.Status(),
		})
	}

	var errs []error
	for _, queued := range h.queue.ActiveTimings() {
		if _, ok := stored[queued.OrderID()]; ok {
			continue
		}

		o, getErr := repo.Get(ctx, queued.OrderID())
		if getErr != nil {
			errs = append(errs, fmt.Errorf("order %s: %w", queued.OrderID(), getErr))
			continue
		}
		seeds = append(seeds, engine.Seed{
			OrderID:   o.ID(),
			ItemCount: o.ItemCount(),
			CreatedAt: o.CreatedAt(),
			Status:    o.Status(),
		})
	}

	report, err := h.queue.Reconcile(ctx, seeds)
	if err != nil {
		errs = append(errs, err)
	}
	return report, errors.Join(errs...)
}
