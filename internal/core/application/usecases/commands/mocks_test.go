package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/core/application/engine"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/timing"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order, expected order.Status) error {
	args := m.Called(ctx, o, expected)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.OrderID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInAutomatedStatus(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInActiveStatus(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockTimingQueue struct{ mock.Mock }

func (m *MockTimingQueue) AddOrder(
	ctx context.Context,
	id kernel.OrderID,
	itemCount int,
	createdAt time.Time,
) (timing.OrderTiming, error) {
	args := m.Called(ctx, id, itemCount, createdAt)
	return args.Get(0).(timing.OrderTiming), args.Error(1)
}

func (m *MockTimingQueue) UpdateStatus(ctx context.Context, id kernel.OrderID, status order.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTimingQueue) ApplyStatusChanges(ctx context.Context, changes []engine.StatusChange) (engine.ApplyReport, error) {
	args := m.Called(ctx, changes)
	return args.Get(0).(engine.ApplyReport), args.Error(1)
}

func (m *MockTimingQueue) Reseed(ctx context.Context, seeds []engine.Seed) (int, error) {
	args := m.Called(ctx, seeds)
	return args.Int(0), args.Error(1)
}

func (m *MockTimingQueue) Reconcile(ctx context.Context, seeds []engine.Seed) (engine.ReconcileReport, error) {
	args := m.Called(ctx, seeds)
	return args.Get(0).(engine.ReconcileReport), args.Error(1)
}

func (m *MockTimingQueue) ActiveTimings() []timing.OrderTiming {
	args := m.Called()
	return args.Get(0).([]timing.OrderTiming)
}

func (m *MockTimingQueue) Timing(id kernel.OrderID) (timing.OrderTiming, bool) {
	args := m.Called(id)
	return args.Get(0).(timing.OrderTiming), args.Bool(1)
}

type MockStatusPublisher struct{ mock.Mock }

func (m *MockStatusPublisher) PublishStatusChanged(ctx context.Context, event ports.StatusChangedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type recordingMetrics struct {
	ports.NopQueueMetrics

	mu          sync.Mutex
	transitions map[string]int
	failures    int
}

func (r *recordingMetrics) IncTransition(from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.transitions == nil {
		r.transitions = make(map[string]int)
	}
	r.transitions[from+"->"+to]++
}

func (r *recordingMetrics) IncTransitionFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

var placedAt = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func storedOrder(t *testing.T, id string, items int, age time.Duration, status order.Status) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(kernel.MustOrderIDFromString(id), items, placedAt.Add(-age), status)
	require.NoError(t, err)
	return o
}

// transactionalUoW returns a factory handing out one unit of work that
// succeeds on every call.
func transactionalUoW(ctx context.Context, repo *MockOrderRepository) (*MockOrderUoWFactory, *MockOrderUoW) {
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)
	return factory, uow
}
