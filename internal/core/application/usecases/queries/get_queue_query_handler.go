package queries

import (
	"context"
)

// GetQueueQueryHandler lists active timings. Before the engine starts the list is empty.
type GetQueueQueryHandler struct {
	facade *QueryFacade
}

// NewGetQueueQueryHandler creates a handler reading through facade.
func NewGetQueueQueryHandler(facade *QueryFacade) GetQueueQueryHandler {
	return GetQueueQueryHandler{facade: facade}
}

// Handle returns one row per active order in service order. Every row is taken
// from the same read of the queue.
func (h GetQueueQueryHandler) Handle(
	_ context.Context,
	query GetQueueQuery,
) ([]GetQueueQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	view := h.facade.QueueView()
	rows := make([]GetQueueQueryResponse, 0, len(view.Timings))
	for _, t := range view.Timings {
		remaining := t.RemainingTime(view.At)
		rows = append(rows, GetQueueQueryResponse{
			OrderID:             t.OrderID(),
			ItemCount:           t.ItemCount(),
			Status:              t.Status(),
			StartTime:           t.StartTime(),
			QueuePosition:       t.QueuePosition(),
			BaseWaitMinutes:     t.BaseWaitTime(),
			ActualWaitMinutes:   t.ActualWaitTime(),
			RemainingMinutes:    remaining,
			Display:             h.facade.FormatTimeDisplay(remaining),
			EstimatedCompletion: t.EstimatedCompletionTime(),
		})
	}

	return rows, nil
}
