package ports

import (
	"context"
	"time"
)

// StatusChangedEvent informs presentation collaborators that an order moved
// to a new status.
type StatusChangedEvent struct {
	OrderID             string    `json:"order_id"`
	OldStatus           string    `json:"old_status,omitempty"`
	NewStatus           string    `json:"new_status"`
	ChangedBy           string    `json:"changed_by"`
	Timestamp           time.Time `json:"timestamp"`
	EstimatedCompletion time.Time `json:"estimated_completion,omitempty"`
}

// StatusPublisher delivers StatusChangedEvent values. Delivery is best effort:
// callers log failures and carry on.
type StatusPublisher interface {
	PublishStatusChanged(ctx context.Context, event StatusChangedEvent) error
}
