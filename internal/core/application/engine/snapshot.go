package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/timing"
	"fulfillment/internal/core/ports"
)

// LoadReport tells the host what Start found in the snapshot store.
type LoadReport struct {
	// Restored is true when a stored snapshot was applied. Hosts rebuild the
	// queue from the OrderStore otherwise.
	Restored         bool
	RestoredActive   int
	RestoredArchived int
	// Reset is true when a stored snapshot existed but had to be discarded.
	Reset bool
	// Cause explains a reset.
	Cause error
}

// Health describes the persistence state of the engine.
type Health struct {
	// Degraded is true while the latest snapshot write failed.
	Degraded       bool
	LastSaveError  error
	LastSavedAt    time.Time
	FailedSaves    int
	ResetAtStartup bool
}

// Health returns the current persistence health.
func (e *TimingEngine) Health() Health {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.health
}

func (e *TimingEngine) load(ctx context.Context) LoadReport {
	if e.store == nil {
		return LoadReport{}
	}

	snapshot, found, err := e.store.Load(ctx)
	if err == nil && !found {
		return LoadReport{}
	}
	if err == nil {
		err = e.restoreLocked(snapshot)
	}
	if err == nil {
		return LoadReport{Restored: true, RestoredActive: len(e.active), RestoredArchived: len(e.archived)}
	}

	e.clearLocked()
	e.health.ResetAtStartup = true
	e.metrics.IncSnapshotFailure("load")
	e.logger.WarnContext(ctx, "Queue snapshot discarded, starting with an empty queue", "error", err)

	return LoadReport{Reset: true, Cause: err}
}

func (e *TimingEngine) restoreLocked(snapshot ports.QueueSnapshot) error {
	if snapshot.Version != ports.SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ports.ErrSnapshotCorrupt, snapshot.Version)
	}

	var errs []error
	for _, rec := range snapshot.Active {
		t, err := fromRecord(rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := e.active[t.OrderID()]; dup {
			errs = append(errs, fmt.Errorf("duplicate active order %s", t.OrderID()))
			continue
		}
		if !t.IsActive() {
			e.archiveLocked(t)
			continue
		}
		e.active[t.OrderID()] = t
	}

	for _, rec := range snapshot.Archived {
		t, err := fromRecord(rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := e.active[t.OrderID()]; dup {
			continue
		}
		e.archiveLocked(t)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ports.ErrSnapshotCorrupt, err)
	}
	return nil
}

func (e *TimingEngine) persistLocked(ctx context.Context) {
	if e.store == nil {
		return
	}

	snapshot := ports.QueueSnapshot{
		Version:  ports.SnapshotVersion,
		SavedAt:  e.now(),
		Active:   make([]ports.TimingRecord, 0, len(e.ordered)),
		Archived: make([]ports.TimingRecord, 0, len(e.archiveOrder)),
	}
	for _, t := range e.ordered {
		snapshot.Active = append(snapshot.Active, toRecord(t))
	}
	for _, id := range e.archiveOrder {
		snapshot.Archived = append(snapshot.Archived, toRecord(e.archived[id]))
	}

	if err := e.store.Save(ctx, snapshot); err != nil {
		e.health.Degraded = true
		e.health.LastSaveError = err
		e.health.FailedSaves++
		e.metrics.IncSnapshotFailure("save")
		e.logger.ErrorContext(ctx, "Failed to save queue snapshot", "error", err)
		return
	}

	e.health.Degraded = false
	e.health.LastSaveError = nil
	e.health.LastSavedAt = snapshot.SavedAt
}

func toRecord(t *timing.OrderTiming) ports.TimingRecord {
	return ports.TimingRecord{
		OrderID:                 t.OrderID().String(),
		ItemCount:               t.ItemCount(),
		BaseWaitTime:            int(t.BaseWaitTime()),
		ActualWaitTime:          int(t.ActualWaitTime()),
		StartTime:               t.StartTime(),
		EstimatedCompletionTime: t.EstimatedCompletionTime(),
		Status:                  t.Status().String(),
		QueuePosition:           t.QueuePosition(),
	}
}

func fromRecord(rec ports.TimingRecord) (*timing.OrderTiming, error) {
	id, err := kernel.OrderIDFromString(rec.OrderID)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(rec.Status)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", rec.OrderID, err)
	}

	t, err := timing.RestoreOrderTiming(
		id,
		rec.ItemCount,
		kernel.Minutes(rec.BaseWaitTime),
		rec.StartTime,
		status,
		kernel.Minutes(rec.ActualWaitTime),
		rec.QueuePosition,
		rec.EstimatedCompletionTime,
	)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", rec.OrderID, err)
	}
	return t, nil
}
