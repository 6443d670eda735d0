package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/engine"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// TickReport summarizes one automation tick.
type TickReport struct {
	// Scanned is the number of orders read in an automated status.
	Scanned int
	// Advanced is the number of orders whose new status was stored.
	Advanced int
	// Failed is the number of orders whose transition could not be stored.
	Failed int
	// Skipped is the number of orders another writer moved between the read
	// and the write. They are reconsidered on the next tick.
	Skipped int
}

// AdvanceStatusesCommandHandler moves orders through the preparation stages as
// time elapses.
//
// Each order is written in its own transaction, so a failure on one order never
// blocks the others. The transitions that were stored are then handed to the
// timing queue as one batch, which recalculates once.
type AdvanceStatusesCommandHandler struct {
	uowFactory OrderUoWFactory
	queue      TimingQueue
	schedule   services.StageSchedule
	metrics    ports.QueueMetrics
	notifier   statusNotifier
	logger     *slog.Logger
}

// NewAdvanceStatusesCommandHandler creates the automation handler.
// publisher may be nil; a nil metrics sink discards measurements.
func NewAdvanceStatusesCommandHandler(
	uowFactory OrderUoWFactory,
	queue TimingQueue,
	schedule services.StageSchedule,
	publisher ports.StatusPublisher,
	metrics ports.QueueMetrics,
	logger *slog.Logger,
) AdvanceStatusesCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = ports.NopQueueMetrics{}
	}

	return AdvanceStatusesCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
		schedule:   schedule,
		metrics:    metrics,
		notifier:   newStatusNotifier(publisher, queue, logger),
		logger:     logger.With("component", "status_automation"),
	}
}

type transition struct {
	stored   *order.Order
	from, to order.Status
}

// Handle runs one tick. The returned error joins every per-order failure and a
// queue failure, if any; the report is meaningful in both cases.
func (h *AdvanceStatusesCommandHandler) Handle(ctx context.Context, cmd AdvanceStatusesCommand) (TickReport, error) {
	var report TickReport
	if err := cmd.Validate(); err != nil {
		return report, err
	}

	orders, err := h.uowFactory.Create().OrderRepository().GetAllInAutomatedStatus(ctx)
	if err != nil {
		return report, fmt.Errorf("list orders in automated status: %w", err)
	}
	report.Scanned = len(orders)

	var (
		errs        []error
		transitions []transition
	)
	for _, o := range orders {
		next, ok := h.schedule.Next(o.Status(), o.MinutesSinceCreated(cmd.Now()))
		if !ok {
			continue
		}

		from := o.Status()
		if err = h.advance(ctx, o, next); errors.Is(err, ports.ErrOrderStatusConflict) {
			report.Skipped++
			h.logger.InfoContext(ctx, "Order status changed concurrently, skipped",
				"order_id", o.ID().String(),
				"from", from.String(),
				"to", next.String(),
			)
			continue
		}
		if err != nil {
			report.Failed++
			h.metrics.IncTransitionFailure()
			h.logger.ErrorContext(ctx, "Failed to advance order status",
				"order_id", o.ID().String(),
				"from", from.String(),
				"to", next.String(),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("order %s: %w", o.ID(), err))
			continue
		}

		report.Advanced++
		transitions = append(transitions, transition{stored: o, from: from, to: next})
	}

	if len(transitions) == 0 {
		return report, errors.Join(errs...)
	}

	changes := make([]engine.StatusChange, 0, len(transitions))
	for _, tr := range transitions {
		changes = append(changes, engine.StatusChange{OrderID: tr.stored.ID(), Status: tr.to})
	}
	if _, err = h.queue.ApplyStatusChanges(ctx, changes); err != nil {
		h.logger.ErrorContext(ctx, "Failed to apply status changes to the timing queue", "error", err)
		errs = append(errs, fmt.Errorf("apply status changes: %w", err))
	}

	for _, tr := range transitions {
		h.metrics.IncTransition(tr.from.String(), tr.to.String())
		h.notifier.notify(ctx, tr.stored.ID(), tr.from, tr.to, ChangedByAutomation, cmd.Now())
	}

	h.logger.InfoContext(ctx, "Automation tick completed",
		"scanned", report.Scanned,
		"advanced", report.Advanced,
		"failed", report.Failed,
		"skipped", report.Skipped,
	)

	return report, errors.Join(errs...)
}

func (h *AdvanceStatusesCommandHandler) advance(ctx context.Context, o *order.Order, next order.Status) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	from := o.Status()
	if err := o.AdvanceTo(next); err != nil {
		return err
	}

	if err := uow.OrderRepository().Update(ctx, o, from); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
