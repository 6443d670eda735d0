package queries

import (
	"context"

	"fulfillment/internal/core/application/engine"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// GetOrderETAQueryHandler answers GetOrderETAQuery from the in-memory queue.
//
// Example:
//
//	handler := NewGetOrderETAQueryHandler(facade)
//	query, _ := NewGetOrderETAQuery(id)
//
//	eta, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("#%d of %d, %s\n", eta.QueuePosition, eta.QueueLength, eta.Display)
type GetOrderETAQueryHandler struct {
	facade *QueryFacade
}

// NewGetOrderETAQueryHandler creates a handler reading through facade.
func NewGetOrderETAQueryHandler(facade *QueryFacade) GetOrderETAQueryHandler {
	return GetOrderETAQueryHandler{facade: facade}
}

// Handle returns engine.ErrEngineNotStarted before the queue is loaded and an
// ObjectNotFoundError for orders the engine has never seen or already evicted.
func (h GetOrderETAQueryHandler) Handle(
	_ context.Context,
	query GetOrderETAQuery,
) (GetOrderETAQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderETAQueryResponse{}, err
	}
	if !h.facade.IsReady() {
		return GetOrderETAQueryResponse{}, engine.ErrEngineNotStarted
	}

	view, ok := h.facade.View(query.OrderID())
	if !ok {
		return GetOrderETAQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}

	t := view.Timing
	resp := GetOrderETAQueryResponse{
		OrderID:     t.OrderID(),
		Status:      t.Status(),
		Queued:      t.IsActive(),
		QueueLength: view.QueueLength,
	}

	if resp.Queued {
		resp.QueuePosition = t.QueuePosition()
		resp.RemainingMinutes = t.RemainingTime(view.At)
		resp.EstimatedCompletion = t.EstimatedCompletionTime()
	}
	if t.Status() != order.Cancelled {
		resp.Display = h.facade.FormatTimeDisplay(resp.RemainingMinutes)
	}

	return resp, nil
}
