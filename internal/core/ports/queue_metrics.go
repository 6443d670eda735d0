package ports

import "time"

// QueueMetrics receives operational measurements from the timing engine and
// the status automation.
type QueueMetrics interface {
	SetQueueLength(n int)
	ObserveRecalculation(d time.Duration)
	IncTransition(from, to string)
	IncTransitionFailure()
	IncSnapshotFailure(operation string)
}

// NopQueueMetrics discards all measurements.
type NopQueueMetrics struct{}

func (NopQueueMetrics) SetQueueLength(int)                 {}
func (NopQueueMetrics) ObserveRecalculation(time.Duration) {}
func (NopQueueMetrics) IncTransition(string, string)       {}
func (NopQueueMetrics) IncTransitionFailure()              {}
func (NopQueueMetrics) IncSnapshotFailure(string)          {}
