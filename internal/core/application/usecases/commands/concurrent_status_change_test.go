package commands_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/core/application/engine"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storedRow struct {
	itemCount int
	createdAt time.Time
	status    order.Status
}

// memoryOrderStore is an OrderStore that applies writes immediately and
// compares the stored status the way the gorm repository does.
type memoryOrderStore struct {
	mu   sync.Mutex
	rows map[string]storedRow

	// afterList runs once, right after the next GetAllInAutomatedStatus.
	afterList func()
}

func newMemoryOrderStore() *memoryOrderStore {
	return &memoryOrderStore{rows: make(map[string]storedRow)}
}

func (s *memoryOrderStore) Add(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[o.ID().String()] = storedRow{itemCount: o.ItemCount(), createdAt: o.CreatedAt(), status: o.Status()}
	return nil
}

func (s *memoryOrderStore) Update(_ context.Context, o *order.Order, expected order.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[o.ID().String()]
	if !ok {
		return errs.NewObjectNotFoundError("order", o.ID().String())
	}
	if row.status != expected {
		return fmt.Errorf("order %s left %s: %w", o.ID(), expected, ports.ErrOrderStatusConflict)
	}
	row.status = o.Status()
	s.rows[o.ID().String()] = row
	return nil
}

func (s *memoryOrderStore) Get(_ context.Context, id kernel.OrderID) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(id, row.itemCount, row.createdAt, row.status)
}

func (s *memoryOrderStore) GetAllInAutomatedStatus(ctx context.Context) ([]*order.Order, error) {
	orders, err := s.find(func(st order.Status) bool { return st.IsAutomated() })
	if err != nil {
		return nil, err
	}

	if hook := s.afterList; hook != nil {
		s.afterList = nil
		hook()
	}
	return orders, nil
}

func (s *memoryOrderStore) GetAllInActiveStatus(context.Context) ([]*order.Order, error) {
	return s.find(func(st order.Status) bool { return st.IsActive() })
}

func (s *memoryOrderStore) find(match func(order.Status) bool) ([]*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []*order.Order
	for id, row := range s.rows {
		if !match(row.status) {
			continue
		}
		o, err := order.RestoreOrder(kernel.MustOrderIDFromString(id), row.itemCount, row.createdAt, row.status)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *memoryOrderStore) status(id string) order.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[id].status
}

type memoryUoW struct{ store *memoryOrderStore }

func (memoryUoW) Begin(context.Context) error { return nil }
func (memoryUoW) Commit(context.Context) error { return nil }
func (memoryUoW) Rollback(context.Context) error { return nil }
func (u memoryUoW) OrderRepository() ports.OrderRepository { return u.store }
func (u memoryUoW) Create() commands.OrderUoW { return u }

type fixedRandom int

func (f fixedRandom) IntN(n int) int { return int(f) % n }

func TestAdvanceStatusesCommandHandler_Handle_CancelBetweenReadAndWrite(t *testing.T) {
	ctx := t.Context()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	id := kernel.MustOrderIDFromString("A-1")
	createdAt := placedAt.Add(-4 * time.Minute)

	eng := engine.New(nil, logger,
		engine.WithClock(func() time.Time { return placedAt }),
		engine.WithRandom(fixedRandom(0)),
	)
	_, err := eng.Start(ctx)
	require.NoError(t, err)

	store := newMemoryOrderStore()
	placed, err := order.NewOrder(id, 2, createdAt)
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, placed))
	_, err = eng.AddOrder(ctx, id, 2, createdAt)
	require.NoError(t, err)

	factory := memoryUoW{store: store}
	cancel := commands.NewCancelOrderCommandHandler(factory, eng, nil, logger)
	store.afterList = func() {
		cmd, cmdErr := commands.NewCancelOrderCommand(id)
		require.NoError(t, cmdErr)
		require.NoError(t, cancel.Handle(ctx, cmd))
	}

	tick := commands.NewAdvanceStatusesCommandHandler(factory, eng, services.DefaultStageSchedule(), nil, nil, logger)
	report, err := tick.Handle(ctx, newTick(t))

	require.NoError(t, err)
	assert.Equal(t, commands.TickReport{Scanned: 1, Skipped: 1}, report)
	assert.Equal(t, order.Cancelled, store.status("A-1"))
	assert.Equal(t, 0, eng.QueueLength())

	queued, ok := eng.Timing(id)
	require.True(t, ok)
	assert.Equal(t, order.Cancelled, queued.Status())

	later, err := commands.NewAdvanceStatusesCommand(placedAt.Add(30 * time.Minute))
	require.NoError(t, err)
	report, err = tick.Handle(ctx, later)

	require.NoError(t, err)
	assert.Equal(t, commands.TickReport{}, report)
	assert.Equal(t, order.Cancelled, store.status("A-1"))
}

func TestCancelOrderCommandHandler_Handle_TickBetweenReadAndWrite(t *testing.T) {
	ctx := t.Context()
	id := kernel.MustOrderIDFromString("B-1")
	store := newMemoryOrderStore()
	placed, err := order.RestoreOrder(id, 2, placedAt.Add(-4*time.Minute), order.Pending)
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, placed))

	// The cancel computes its change from pending; the order is confirmed
	// before its write lands.
	racing := &racingStore{memoryOrderStore: store, before: func() {
		store.mu.Lock()
		row := store.rows["B-1"]
		row.status = order.Confirmed
		store.rows["B-1"] = row
		store.mu.Unlock()
	}}

	queue := new(MockTimingQueue)
	h := commands.NewCancelOrderCommandHandler(racingUoW{racing}, queue, nil, nil)
	cmd, err := commands.NewCancelOrderCommand(id)
	require.NoError(t, err)

	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, ports.ErrOrderStatusConflict)
	assert.Equal(t, order.Confirmed, store.status("B-1"))
	queue.AssertExpectations(t)
}

// racingStore runs before ahead of every Update.
type racingStore struct {
	*memoryOrderStore
	before func()
}

func (r *racingStore) Update(ctx context.Context, o *order.Order, expected order.Status) error {
	r.before()
	return r.memoryOrderStore.Update(ctx, o, expected)
}

type racingUoW struct{ store *racingStore }

func (racingUoW) Begin(context.Context) error { return nil }
func (racingUoW) Commit(context.Context) error { return nil }
func (racingUoW) Rollback(context.Context) error { return nil }
func (u racingUoW) OrderRepository() ports.OrderRepository { return u.store }
func (u racingUoW) Create() commands.OrderUoW { return u }
