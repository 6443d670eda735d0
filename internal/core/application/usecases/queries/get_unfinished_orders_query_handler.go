package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetUnfinishedOrdersQueryHandler reads unfinished orders directly from the
// database, bypassing the domain repository.
type GetUnfinishedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUnfinishedOrdersQueryHandler creates a handler for unfinished order queries.
func NewGetUnfinishedOrdersQueryHandler(db *gorm.DB) GetUnfinishedOrdersQueryHandler {
	return GetUnfinishedOrdersQueryHandler{db: db}
}

// Handle returns orders outside {delivered, cancelled, completed}, oldest first.
func (h GetUnfinishedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUnfinishedOrdersQuery,
) ([]GetUnfinishedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetUnfinishedOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			item_count,
			status,
			created_at
		FROM orders
		WHERE status NOT IN ?
		ORDER BY created_at, id
	`, []int{int(order.Delivered), int(order.Cancelled), int(order.Completed)}).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        string
			itemCount int
			status    int
			createdAt time.Time
		)

		if err = rows.Scan(&id, &itemCount, &status, &createdAt); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.OrderIDFromString(id)
		if idErr != nil {
			return nil, idErr
		}

		orders = append(orders, GetUnfinishedOrdersQueryResponse{
			ID:        orderID,
			ItemCount: itemCount,
			Status:    order.Status(status),
			CreatedAt: createdAt.UTC(),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
