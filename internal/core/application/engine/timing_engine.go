package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/timing"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

var (
	// ErrEngineNotStarted is returned by mutations issued before Start or after Stop.
	ErrEngineNotStarted = errors.New("timing engine is not started")

	// ErrEngineAlreadyStarted is returned by a second Start.
	ErrEngineAlreadyStarted = errors.New("timing engine is already started")

	// ErrOrderAlreadyQueued is returned when adding an order that is already active.
	ErrOrderAlreadyQueued = errors.New("order is already queued")
)

// StatusChange asks the engine to record a new status for an order.
type StatusChange struct {
	OrderID kernel.OrderID
	Status  order.Status
}

// ApplyReport describes the outcome of ApplyStatusChanges.
type ApplyReport struct {
	// Applied lists orders whose status was recorded.
	Applied []kernel.OrderID
	// Removed lists orders that left the active queue.
	Removed []kernel.OrderID
	// Unknown lists orders that are not in the active queue.
	Unknown []kernel.OrderID
}

// ReconcileReport describes the outcome of Reconcile.
type ReconcileReport struct {
	// Added lists stored active orders that were missing from the queue.
	Added []kernel.OrderID
	// Updated lists queued orders whose stored status differed.
	Updated []kernel.OrderID
	// Removed lists queued orders the OrderStore no longer holds as active.
	Removed []kernel.OrderID
}

// Changed reports whether Reconcile modified the queue.
func (r ReconcileReport) Changed() bool {
	return len(r.Added)+len(r.Updated)+len(r.Removed) > 0
}

// Seed is an order used to rebuild the queue from the OrderStore.
type Seed struct {
	OrderID   kernel.OrderID
	ItemCount int
	CreatedAt time.Time
	Status    order.Status
}

// TimingEngine maintains the authoritative mapping from order to estimated
// completion time. Create it with New; it is safe for concurrent use.
type TimingEngine struct {
	mu sync.Mutex

	store        ports.SnapshotStore
	estimator    services.QueueEstimator
	rnd          timing.RandomSource
	now          func() time.Time
	metrics      ports.QueueMetrics
	logger       *slog.Logger
	archiveLimit int

	started      bool
	active       map[kernel.OrderID]*timing.OrderTiming
	ordered      []*timing.OrderTiming
	archived     map[kernel.OrderID]*timing.OrderTiming
	archiveOrder []kernel.OrderID
	health       Health
}

// New creates a stopped engine backed by store.
func New(store ports.SnapshotStore, logger *slog.Logger, opts ...Option) *TimingEngine {
	if logger == nil {
		logger = slog.Default()
	}

	e := &TimingEngine{
		store:        store,
		estimator:    services.NewQueueEstimator(services.NewestFirst),
		rnd:          timing.DefaultRandom,
		now:          time.Now,
		metrics:      ports.NopQueueMetrics{},
		logger:       logger.With("component", "timing_engine"),
		archiveLimit: DefaultArchiveLimit,
		active:       make(map[kernel.OrderID]*timing.OrderTiming),
		archived:     make(map[kernel.OrderID]*timing.OrderTiming),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Start restores the queue from the snapshot store and makes the engine
// available for mutations. A missing snapshot starts an empty queue; an
// unreadable or inconsistent one is discarded and reported in LoadReport.
func (e *TimingEngine) Start(ctx context.Context) (LoadReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return LoadReport{}, ErrEngineAlreadyStarted
	}

	report := e.load(ctx)
	e.started = true

	e.recalculateLocked()
	e.persistLocked(ctx)

	e.logger.InfoContext(ctx, "Timing engine started",
		"restored_active", report.RestoredActive,
		"restored_archived", report.RestoredArchived,
		"reset", report.Reset,
		"queue_order", e.estimator.Order().String(),
	)

	return report, nil
}

// Stop saves a final snapshot and rejects further mutations.
// Queries keep answering with the last known state.
func (e *TimingEngine) Stop(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}

	e.persistLocked(ctx)
	e.started = false
	e.logger.InfoContext(ctx, "Timing engine stopped", "queue_length", len(e.ordered))
}

// IsStarted reports whether Start completed and Stop was not called.
func (e *TimingEngine) IsStarted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.started
}

// AddOrder enters a newly placed order into the queue. A zero createdAt means now.
func (e *TimingEngine) AddOrder(
	ctx context.Context,
	id kernel.OrderID,
	itemCount int,
	createdAt time.Time,
) (timing.OrderTiming, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return timing.OrderTiming{}, ErrEngineNotStarted
	}

	if createdAt.IsZero() {
		createdAt = e.now()
	}

	if _, ok := e.active[id]; ok {
		return timing.OrderTiming{}, fmt.Errorf("%w: %s", ErrOrderAlreadyQueued, id)
	}

	t, err := timing.NewOrderTiming(id, itemCount, createdAt, e.rnd)
	if err != nil {
		return timing.OrderTiming{}, err
	}

	e.unarchiveLocked(id)
	e.active[id] = t

	e.recalculateLocked()
	e.persistLocked(ctx)

	e.logger.InfoContext(ctx, "Order added to queue",
		"order_id", id.String(),
		"item_count", itemCount,
		"base_wait_minutes", int(t.BaseWaitTime()),
		"queue_position", t.QueuePosition(),
	)

	return *t, nil
}

// UpdateStatus records a status change for one order. Statuses outside the
// active set remove the order from the queue. Unknown orders are a logged no-op.
func (e *TimingEngine) UpdateStatus(ctx context.Context, id kernel.OrderID, status order.Status) error {
	_, err := e.ApplyStatusChanges(ctx, []StatusChange{{OrderID: id, Status: status}})
	return err
}

// ApplyStatusChanges records a batch of status changes and recalculates once.
// Invalid statuses are reported in the returned error; the valid part of the
// batch is still applied.
func (e *TimingEngine) ApplyStatusChanges(ctx context.Context, changes []StatusChange) (ApplyReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var report ApplyReport
	if !e.started {
		return report, ErrEngineNotStarted
	}

	var errs []error
	for _, change := range changes {
		t, ok := e.active[change.OrderID]
		if !ok {
			report.Unknown = append(report.Unknown, change.OrderID)
			e.logger.WarnContext(ctx, "Status update for order not in queue ignored",
				"order_id", change.OrderID.String(),
				"status", change.Status.String(),
			)
			continue
		}

		if err := t.SetStatus(change.Status); err != nil {
			errs = append(errs, fmt.Errorf("order %s: %w", change.OrderID, err))
			continue
		}
		report.Applied = append(report.Applied, change.OrderID)

		if !change.Status.IsActive() {
			delete(e.active, change.OrderID)
			e.archiveLocked(t)
			report.Removed = append(report.Removed, change.OrderID)
		}
	}

	if len(report.Applied) > 0 {
		e.recalculateLocked()
		e.persistLocked(ctx)
	}

	return report, errors.Join(errs...)
}

// Recalculate recomputes positions and estimates of the active set.
func (e *TimingEngine) Recalculate(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return ErrEngineNotStarted
	}

	e.recalculateLocked()
	e.persistLocked(ctx)
	return nil
}

// ClearQueue empties the active queue and the archive.
func (e *TimingEngine) ClearQueue(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return ErrEngineNotStarted
	}

	e.clearLocked()
	e.recalculateLocked()
	e.persistLocked(ctx)

	e.logger.InfoContext(ctx, "Queue cleared")
	return nil
}

// Reseed replaces the queue with the given orders in one step. Seeds whose
// status is not active are skipped; invalid seeds are reported and skipped.
func (e *TimingEngine) Reseed(ctx context.Context, seeds []Seed) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return 0, ErrEngineNotStarted
	}

	e.clearLocked()

	var errs []error
	for _, seed := range seeds {
		if !seed.Status.IsActive() {
			continue
		}
		if _, dup := e.active[seed.OrderID]; dup {
			errs = append(errs, fmt.Errorf("%w: %s", ErrOrderAlreadyQueued, seed.OrderID))
			continue
		}

		t, err := e.timingFromSeed(seed)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		e.active[seed.OrderID] = t
	}

	e.recalculateLocked()
	e.persistLocked(ctx)

	e.logger.InfoContext(ctx, "Queue reseeded", "queue_length", len(e.ordered), "skipped", len(errs))
	return len(e.ordered), errors.Join(errs...)
}

// Reconcile aligns a restored queue with the OrderStore without discarding the
// restored estimates. Active seeds missing from the queue are added, and queued
// orders whose seed carries another status take that status, leaving the queue
// when it is not active. Queued orders without a seed are left untouched.
func (e *TimingEngine) Reconcile(ctx context.Context, seeds []Seed) (ReconcileReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var report ReconcileReport
	if !e.started {
		return report, ErrEngineNotStarted
	}

	var errs []error
	for _, seed := range seeds {
		if t, queued := e.active[seed.OrderID]; queued {
			if t.Status() == seed.Status {
				continue
			}
			if err := t.SetStatus(seed.Status); err != nil {
				errs = append(errs, fmt.Errorf("order %s: %w", seed.OrderID, err))
				continue
			}
			if seed.Status.IsActive() {
				report.Updated = append(report.Updated, seed.OrderID)
				continue
			}
			delete(e.active, seed.OrderID)
			e.archiveLocked(t)
			report.Removed = append(report.Removed, seed.OrderID)
			continue
		}

		if !seed.Status.IsActive() {
			continue
		}
		t, err := e.timingFromSeed(seed)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		e.unarchiveLocked(seed.OrderID)
		e.active[seed.OrderID] = t
		report.Added = append(report.Added, seed.OrderID)
	}

	if report.Changed() {
		e.recalculateLocked()
		e.persistLocked(ctx)
	}

	e.logger.InfoContext(ctx, "Queue reconciled with order store",
		"added", len(report.Added),
		"updated", len(report.Updated),
		"removed", len(report.Removed),
		"skipped", len(errs),
	)
	return report, errors.Join(errs...)
}

func (e *TimingEngine) timingFromSeed(seed Seed) (*timing.OrderTiming, error) {
	t, err := timing.NewOrderTiming(seed.OrderID, seed.ItemCount, seed.CreatedAt, e.rnd)
	if err == nil {
		err = t.SetStatus(seed.Status)
	}
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", seed.OrderID, err)
	}
	return t, nil
}

// Timing returns a copy of the timing of an active or archived order.
func (e *TimingEngine) Timing(id kernel.OrderID) (timing.OrderTiming, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if t, ok := e.active[id]; ok {
		return *t, true
	}
	if t, ok := e.archived[id]; ok {
		return *t, true
	}
	return timing.OrderTiming{}, false
}

// TimingView is one order's timing together with the queue length and the
// instant both were read at.
type TimingView struct {
	Timing      timing.OrderTiming
	QueueLength int
	At          time.Time
}

// QueueView is the active queue in service order as read at one instant.
type QueueView struct {
	Timings []timing.OrderTiming
	At      time.Time
}

// View returns a consistent read of an active or archived order.
func (e *TimingEngine) View(id kernel.OrderID) (TimingView, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.active[id]
	if !ok {
		t, ok = e.archived[id]
	}
	if !ok {
		return TimingView{}, false
	}
	return TimingView{Timing: *t, QueueLength: len(e.active), At: e.now()}, true
}

// QueueView returns a consistent read of the whole active queue.
func (e *TimingEngine) QueueView() QueueView {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]timing.OrderTiming, 0, len(e.ordered))
	for _, t := range e.ordered {
		out = append(out, *t)
	}
	return QueueView{Timings: out, At: e.now()}
}

// ActiveTimings returns copies of the active timings in service order.
func (e *TimingEngine) ActiveTimings() []timing.OrderTiming {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]timing.OrderTiming, 0, len(e.ordered))
	for _, t := range e.ordered {
		out = append(out, *t)
	}
	return out
}

// RemainingTime returns whole minutes until the order is estimated to be done,
// or 0 for unknown and inactive orders.
func (e *TimingEngine) RemainingTime(id kernel.OrderID) kernel.Minutes {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.active[id]
	if !ok {
		return 0
	}
	return t.RemainingTime(e.now())
}

// QueuePosition returns the order's rank in the active queue, or 0 when it is not queued.
func (e *TimingEngine) QueuePosition(id kernel.OrderID) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.active[id]
	if !ok {
		return 0
	}
	return t.QueuePosition()
}

// QueueLength returns the number of active orders.
func (e *TimingEngine) QueueLength() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.active)
}

// FormatTimeDisplay renders minutes the way customers see them.
func (e *TimingEngine) FormatTimeDisplay(minutes kernel.Minutes) string {
	return timing.FormatTimeDisplay(minutes)
}

func (e *TimingEngine) recalculateLocked() {
	started := time.Now()

	all := make([]*timing.OrderTiming, 0, len(e.active))
	for _, t := range e.active {
		all = append(all, t)
	}
	e.ordered = e.estimator.Estimate(all, e.now())

	e.metrics.ObserveRecalculation(time.Since(started))
	e.metrics.SetQueueLength(len(e.ordered))
}

func (e *TimingEngine) clearLocked() {
	e.active = make(map[kernel.OrderID]*timing.OrderTiming)
	e.archived = make(map[kernel.OrderID]*timing.OrderTiming)
	e.archiveOrder = nil
	e.ordered = nil
}

func (e *TimingEngine) archiveLocked(t *timing.OrderTiming) {
	if e.archiveLimit == 0 {
		return
	}

	id := t.OrderID()
	e.unarchiveLocked(id)
	e.archived[id] = t
	e.archiveOrder = append(e.archiveOrder, id)

	for len(e.archiveOrder) > e.archiveLimit {
		delete(e.archived, e.archiveOrder[0])
		e.archiveOrder = e.archiveOrder[1:]
	}
}

func (e *TimingEngine) unarchiveLocked(id kernel.OrderID) {
	if _, ok := e.archived[id]; !ok {
		return
	}
	delete(e.archived, id)
	e.archiveOrder = slices.DeleteFunc(e.archiveOrder, func(other kernel.OrderID) bool {
		return other.IsEqual(id)
	})
}
