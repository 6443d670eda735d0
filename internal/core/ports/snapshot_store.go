package ports

import (
	"context"
	"errors"
	"time"
)

// SnapshotVersion is the current layout of QueueSnapshot.
const SnapshotVersion = 1

// ErrSnapshotCorrupt is returned by SnapshotStore.Load when stored data cannot be decoded.
var ErrSnapshotCorrupt = errors.New("queue snapshot is corrupt")

// QueueSnapshot is the serialized state of the timing engine, written after
// every mutation and read once at startup.
type QueueSnapshot struct {
	Version  int            `json:"version"`
	SavedAt  time.Time      `json:"savedAt"`
	Active   []TimingRecord `json:"active"`
	Archived []TimingRecord `json:"archived,omitempty"`
}

// TimingRecord is the persisted form of one OrderTiming.
type TimingRecord struct {
	OrderID                 string    `json:"orderId"`
	ItemCount               int       `json:"itemCount"`
	BaseWaitTime            int       `json:"baseWaitTime"`
	ActualWaitTime          int       `json:"actualWaitTime"`
	StartTime               time.Time `json:"startTime"`
	EstimatedCompletionTime time.Time `json:"estimatedCompletionTime"`
	Status                  string    `json:"status"`
	QueuePosition           int       `json:"queuePosition"`
}

// SnapshotStore persists QueueSnapshot values.
type SnapshotStore interface {
	// Load returns the last saved snapshot. found is false when nothing was saved yet.
	// Undecodable data is reported with an error wrapping ErrSnapshotCorrupt.
	Load(ctx context.Context) (snapshot QueueSnapshot, found bool, err error)

	// Save replaces the stored snapshot.
	Save(ctx context.Context, snapshot QueueSnapshot) error
}
