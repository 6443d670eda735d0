package engine

import (
	"time"

	"fulfillment/internal/core/domain/model/timing"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// DefaultArchiveLimit bounds how many finished timings are retained.
const DefaultArchiveLimit = 500

// Option configures a TimingEngine.
type Option func(*TimingEngine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *TimingEngine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRandom sets the source used for small-order base waits.
func WithRandom(rnd timing.RandomSource) Option {
	return func(e *TimingEngine) {
		if rnd != nil {
			e.rnd = rnd
		}
	}
}

// WithQueueOrder selects the service order used by recalculation.
func WithQueueOrder(order services.QueueOrder) Option {
	return func(e *TimingEngine) {
		e.estimator = services.NewQueueEstimator(order)
	}
}

// WithArchiveLimit bounds the archive of finished timings. Zero disables the archive.
func WithArchiveLimit(limit int) Option {
	return func(e *TimingEngine) {
		if limit >= 0 {
			e.archiveLimit = limit
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(metrics ports.QueueMetrics) Option {
	return func(e *TimingEngine) {
		if metrics != nil {
			e.metrics = metrics
		}
	}
}
