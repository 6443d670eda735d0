package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// Values of StatusChangedEvent.ChangedBy.
const (
	ChangedByAutomation = "system"
	ChangedByOperator   = "operator"
)

// statusNotifier publishes status changes on a best effort basis.
// A nil publisher disables publishing.
type statusNotifier struct {
	publisher ports.StatusPublisher
	queue     TimingQueue
	logger    *slog.Logger
}

func newStatusNotifier(publisher ports.StatusPublisher, queue TimingQueue, logger *slog.Logger) statusNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return statusNotifier{publisher: publisher, queue: queue, logger: logger}
}

func (n statusNotifier) notify(ctx context.Context, id kernel.OrderID, from, to order.Status, changedBy string, at time.Time) {
	if n.publisher == nil {
		return
	}

	event := ports.StatusChangedEvent{
		OrderID:   id.String(),
		NewStatus: to.String(),
		ChangedBy: changedBy,
		Timestamp: at,
	}
	if from != order.Unknown {
		event.OldStatus = from.String()
	}
	if n.queue != nil {
		if t, ok := n.queue.Timing(id); ok && t.IsActive() {
			event.EstimatedCompletion = t.EstimatedCompletionTime()
		}
	}

	if err := n.publisher.PublishStatusChanged(ctx, event); err != nil {
		n.logger.WarnContext(ctx, "Failed to publish status change",
			"order_id", event.OrderID,
			"new_status", event.NewStatus,
			"error", err,
		)
	}
}
