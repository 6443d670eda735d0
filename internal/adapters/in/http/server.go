package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fulfillment/internal/core/application/engine"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/timing"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type (
	// OrderPlacer handles order placement.
	OrderPlacer interface {
		Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (timing.OrderTiming, error)
	}
	// OrderCanceller handles order cancellation.
	OrderCanceller interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) error
	}
	// OrderCompleter records an order handoff.
	OrderCompleter interface {
		Handle(ctx context.Context, cmd commands.CompleteOrderCommand) error
	}
	// OrderETAReader answers the ETA of one order.
	OrderETAReader interface {
		Handle(ctx context.Context, query queries.GetOrderETAQuery) (queries.GetOrderETAQueryResponse, error)
	}
	// QueueReader lists the active queue.
	QueueReader interface {
		Handle(ctx context.Context, query queries.GetQueueQuery) ([]queries.GetQueueQueryResponse, error)
	}
	// UnfinishedOrdersReader lists unfinished orders from the OrderStore.
	UnfinishedOrdersReader interface {
		Handle(ctx context.Context, query queries.GetUnfinishedOrdersQuery) ([]queries.GetUnfinishedOrdersQueryResponse, error)
	}
	// EngineStatus reports timing engine liveness for /health.
	EngineStatus interface {
		IsStarted() bool
		Health() engine.Health
	}
)

// Server serves the order fulfillment API.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	placeOrderHandler    OrderPlacer
	cancelOrderHandler   OrderCanceller
	completeOrderHandler OrderCompleter

	// Query handlers
	orderETAHandler         OrderETAReader
	queueHandler            QueueReader
	unfinishedOrdersHandler UnfinishedOrdersReader

	facade *queries.QueryFacade
	engine EngineStatus
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	placeOrderHandler OrderPlacer,
	cancelOrderHandler OrderCanceller,
	completeOrderHandler OrderCompleter,
	orderETAHandler OrderETAReader,
	queueHandler QueueReader,
	unfinishedOrdersHandler UnfinishedOrdersReader,
	facade *queries.QueryFacade,
	engineStatus EngineStatus,
) *Server {
	return &Server{
		placeOrderHandler:       placeOrderHandler,
		cancelOrderHandler:      cancelOrderHandler,
		completeOrderHandler:    completeOrderHandler,
		orderETAHandler:         orderETAHandler,
		queueHandler:            queueHandler,
		unfinishedOrdersHandler: unfinishedOrdersHandler,
		facade:                  facade,
		engine:                  engineStatus,
	}
}

// Register mounts the API routes, /health and, when metrics is not nil, /metrics.
func (s *Server) Register(e *echo.Echo, metrics http.Handler) {
	e.GET("/health", s.GetHealth)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}

	api := e.Group("/api/v1")
	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders", s.GetOrders)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/complete", s.CompleteOrder)
	api.GET("/orders/:id/eta", s.GetOrderETA)
	api.GET("/queue", s.GetQueue)
}

// PlaceOrder handles POST /api/v1/orders - stores and queues a new order.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	if !s.engine.IsStarted() {
		return errorJSON(ctx, http.StatusServiceUnavailable, "Timing queue is not ready")
	}

	orderID := kernel.NewOrderID()
	if body.OrderID != "" {
		var err error
		if orderID, err = kernel.OrderIDFromString(body.OrderID); err != nil {
			return errorJSON(ctx, http.StatusBadRequest, "Invalid order data: "+err.Error())
		}
	}

	var createdAt time.Time
	if body.CreatedAt != nil {
		createdAt = *body.CreatedAt
	}

	cmd, err := commands.NewPlaceOrderCommand(orderID, body.ItemCount, createdAt)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order data: "+err.Error())
	}

	placed, err := s.placeOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return handlerError(ctx, err, "Failed to place order")
	}

	remaining := s.facade.RemainingTime(placed.OrderID())
	return ctx.JSON(http.StatusCreated, toPlacedTiming(placed, int(remaining), s.facade.FormatTimeDisplay(remaining)))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.OrderIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	if err = s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return transitionError(ctx, err, "Failed to cancel order")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteOrder handles POST /api/v1/orders/:id/complete - records the handoff.
func (s *Server) CompleteOrder(ctx echo.Context) error {
	orderID, err := kernel.OrderIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	cmd, err := commands.NewCompleteOrderCommand(orderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	if err = s.completeOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return transitionError(ctx, err, "Failed to complete order")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrderETA handles GET /api/v1/orders/:id/eta.
func (s *Server) GetOrderETA(ctx echo.Context) error {
	orderID, err := kernel.OrderIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	query, err := queries.NewGetOrderETAQuery(orderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	eta, err := s.orderETAHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return handlerError(ctx, err, "Failed to retrieve order estimate")
	}

	return ctx.JSON(http.StatusOK, toOrderETA(eta))
}

// GetQueue handles GET /api/v1/queue - the active queue in service order.
func (s *Server) GetQueue(ctx echo.Context) error {
	rows, err := s.queueHandler.Handle(ctx.Request().Context(), queries.NewGetQueueQuery())
	if err != nil {
		return handlerError(ctx, err, "Failed to retrieve queue")
	}

	response := make([]OrderTiming, len(rows))
	for i, row := range rows {
		response[i] = toQueueEntry(row)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrders handles GET /api/v1/orders - retrieves all unfinished stored orders.
func (s *Server) GetOrders(ctx echo.Context) error {
	orders, err := s.unfinishedOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetUnfinishedOrdersQuery())
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve orders")
	}

	response := make([]Order, len(orders))
	for i, o := range orders {
		response[i] = Order{
			OrderID:   o.ID.String(),
			ItemCount: o.ItemCount,
			Status:    o.Status.String(),
			CreatedAt: o.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetHealth handles GET /health. A stopped engine answers 503; a degraded
// snapshot store is reported but still healthy.
func (s *Server) GetHealth(ctx echo.Context) error {
	health := s.engine.Health()
	resp := Health{
		Status:         "ok",
		EngineStarted:  s.engine.IsStarted(),
		Degraded:       health.Degraded,
		ResetAtStartup: health.ResetAtStartup,
		FailedSaves:    health.FailedSaves,
	}
	if health.LastSaveError != nil {
		resp.LastSaveError = health.LastSaveError.Error()
	}
	if !health.LastSavedAt.IsZero() {
		savedAt := health.LastSavedAt
		resp.LastSavedAt = &savedAt
	}

	code := http.StatusOK
	switch {
	case !resp.EngineStarted:
		resp.Status = "starting"
		code = http.StatusServiceUnavailable
	case resp.Degraded:
		resp.Status = "degraded"
	}

	return ctx.JSON(code, resp)
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}

func handlerError(ctx echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorJSON(ctx, http.StatusNotFound, "Order not found")
	case errors.Is(err, engine.ErrEngineNotStarted):
		return errorJSON(ctx, http.StatusServiceUnavailable, "Timing queue is not ready")
	case errors.Is(err, engine.ErrOrderAlreadyQueued):
		return errorJSON(ctx, http.StatusConflict, "Order is already queued")
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	default:
		return errorJSON(ctx, http.StatusInternalServerError, fallback)
	}
}

// transitionError reports a rejected status change as a conflict.
func transitionError(ctx echo.Context, err error, fallback string) error {
	if errors.Is(err, errs.ErrValueIsInvalid) {
		return errorJSON(ctx, http.StatusConflict, err.Error())
	}
	if errors.Is(err, ports.ErrOrderStatusConflict) {
		return errorJSON(ctx, http.StatusConflict, "Order status changed concurrently, retry")
	}
	return handlerError(ctx, err, fallback)
}
