package cmd

import (
	"log/slog"

	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/engine"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot owns the long-lived dependencies and builds every handler
// the transports and jobs need.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	engine     *engine.TimingEngine
	facade     *queries.QueryFacade
	publisher  ports.StatusPublisher
	metrics    ports.QueueMetrics
	logger     *slog.Logger
}

// NewCompositionRoot wires the timing engine and the OrderStore. store and
// publisher may be nil.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	store ports.SnapshotStore,
	publisher ports.StatusPublisher,
	metrics ports.QueueMetrics,
	logger *slog.Logger,
) CompositionRoot {
	timingEngine := engine.New(store, logger,
		engine.WithQueueOrder(cfg.QueueOrder),
		engine.WithArchiveLimit(cfg.ArchiveLimit),
		engine.WithMetrics(metrics),
	)

	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		engine:     timingEngine,
		facade:     queries.NewQueryFacade(timingEngine),
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
	}
}

// Engine returns the shared timing engine.
func (c *CompositionRoot) Engine() *engine.TimingEngine {
	return c.engine
}

// QueryFacade returns the read-only view over the engine.
func (c *CompositionRoot) QueryFacade() *queries.QueryFacade {
	return c.facade
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

// CreatePlaceOrderCommandHandler stores new orders and queues them.
func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.orderUoWFactory(), c.engine, c.publisher, c.logger)
}

// CreateCancelOrderCommandHandler cancels stored orders.
func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.engine, c.publisher, c.logger)
}

// CreateCompleteOrderCommandHandler records the handoff of stored orders.
func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(c.orderUoWFactory(), c.engine, c.publisher, c.logger)
}

// CreateAdvanceStatusesCommandHandler runs one automation tick with the default stages.
func (c *CompositionRoot) CreateAdvanceStatusesCommandHandler() commands.AdvanceStatusesCommandHandler {
	return commands.NewAdvanceStatusesCommandHandler(
		c.orderUoWFactory(),
		c.engine,
		services.DefaultStageSchedule(),
		c.publisher,
		c.metrics,
		c.logger,
	)
}

// CreateReseedQueueCommandHandler rebuilds the queue from the OrderStore.
func (c *CompositionRoot) CreateReseedQueueCommandHandler() commands.ReseedQueueCommandHandler {
	return commands.NewReseedQueueCommandHandler(c.orderUoWFactory(), c.engine)
}

// CreateReconcileQueueCommandHandler aligns a restored queue with the OrderStore.
func (c *CompositionRoot) CreateReconcileQueueCommandHandler() commands.ReconcileQueueCommandHandler {
	return commands.NewReconcileQueueCommandHandler(c.orderUoWFactory(), c.engine)
}

// CreateGetOrderETAQueryHandler answers per-order ETA lookups.
func (c *CompositionRoot) CreateGetOrderETAQueryHandler() queries.GetOrderETAQueryHandler {
	return queries.NewGetOrderETAQueryHandler(c.facade)
}

// CreateGetQueueQueryHandler lists the active queue.
func (c *CompositionRoot) CreateGetQueueQueryHandler() queries.GetQueueQueryHandler {
	return queries.NewGetQueueQueryHandler(c.facade)
}

// CreateGetUnfinishedOrdersQueryHandler lists unfinished orders straight from the database.
func (c *CompositionRoot) CreateGetUnfinishedOrdersQueryHandler() queries.GetUnfinishedOrdersQueryHandler {
	return queries.NewGetUnfinishedOrdersQueryHandler(c.gormDB)
}

// CreateJobManager schedules the status automation.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	handler := c.CreateAdvanceStatusesCommandHandler()
	return jobs.NewJobManager(&handler, c.cfg.AutomationSchedule, c.logger)
}

// FuncOrderUoWFactory adapts a function to commands.OrderUoWFactory.
type FuncOrderUoWFactory func() commands.OrderUoW

// Create calls f.
func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
