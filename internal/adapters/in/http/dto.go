package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/timing"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrder is the body of POST /api/v1/orders. An empty orderId is generated;
// a missing createdAt means now.
type NewOrder struct {
	OrderID   string     `json:"orderId"`
	ItemCount int        `json:"itemCount"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// OrderTiming describes an order's place in the queue.
type OrderTiming struct {
	OrderID                 string    `json:"orderId"`
	ItemCount               int       `json:"itemCount"`
	Status                  string    `json:"status"`
	StartTime               time.Time `json:"startTime"`
	BaseWaitTime            int       `json:"baseWaitTime"`
	ActualWaitTime          int       `json:"actualWaitTime"`
	QueuePosition           int       `json:"queuePosition"`
	RemainingMinutes        int       `json:"remainingMinutes"`
	Display                 string    `json:"display"`
	EstimatedCompletionTime time.Time `json:"estimatedCompletionTime"`
}

// OrderETA is the customer view of one order.
type OrderETA struct {
	OrderID                 string     `json:"orderId"`
	Status                  string     `json:"status"`
	Queued                  bool       `json:"queued"`
	QueuePosition           int        `json:"queuePosition"`
	QueueLength             int        `json:"queueLength"`
	RemainingMinutes        int        `json:"remainingMinutes"`
	Display                 string     `json:"display"`
	EstimatedCompletionTime *time.Time `json:"estimatedCompletionTime,omitempty"`
}

// Order is a stored, unfinished order.
type Order struct {
	OrderID   string    `json:"orderId"`
	ItemCount int       `json:"itemCount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Health is the body of GET /health.
type Health struct {
	Status         string     `json:"status"`
	EngineStarted  bool       `json:"engineStarted"`
	Degraded       bool       `json:"degraded"`
	ResetAtStartup bool       `json:"resetAtStartup"`
	FailedSaves    int        `json:"failedSaves"`
	LastSaveError  string     `json:"lastSaveError,omitempty"`
	LastSavedAt    *time.Time `json:"lastSavedAt,omitempty"`
}

func toPlacedTiming(t timing.OrderTiming, remaining int, display string) OrderTiming {
	return OrderTiming{
		OrderID:                 t.OrderID().String(),
		ItemCount:               t.ItemCount(),
		Status:                  t.Status().String(),
		StartTime:               t.StartTime(),
		BaseWaitTime:            int(t.BaseWaitTime()),
		ActualWaitTime:          int(t.ActualWaitTime()),
		QueuePosition:           t.QueuePosition(),
		RemainingMinutes:        remaining,
		Display:                 display,
		EstimatedCompletionTime: t.EstimatedCompletionTime(),
	}
}

func toQueueEntry(row queries.GetQueueQueryResponse) OrderTiming {
	return OrderTiming{
		OrderID:                 row.OrderID.String(),
		ItemCount:               row.ItemCount,
		Status:                  row.Status.String(),
		StartTime:               row.StartTime,
		BaseWaitTime:            int(row.BaseWaitMinutes),
		ActualWaitTime:          int(row.ActualWaitMinutes),
		QueuePosition:           row.QueuePosition,
		RemainingMinutes:        int(row.RemainingMinutes),
		Display:                 row.Display,
		EstimatedCompletionTime: row.EstimatedCompletion,
	}
}

func toOrderETA(eta queries.GetOrderETAQueryResponse) OrderETA {
	resp := OrderETA{
		OrderID:          eta.OrderID.String(),
		Status:           eta.Status.String(),
		Queued:           eta.Queued,
		QueuePosition:    eta.QueuePosition,
		QueueLength:      eta.QueueLength,
		RemainingMinutes: int(eta.RemainingMinutes),
		Display:          eta.Display,
	}
	if !eta.EstimatedCompletion.IsZero() {
		ect := eta.EstimatedCompletion
		resp.EstimatedCompletionTime = &ect
	}
	return resp
}
