package queries

import (
	"fulfillment/internal/core/application/engine"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/timing"
)

// TimingReader is the read side of the timing engine.
type TimingReader interface {
	IsStarted() bool
	RemainingTime(id kernel.OrderID) kernel.Minutes
	QueuePosition(id kernel.OrderID) int
	QueueLength() int
	Timing(id kernel.OrderID) (timing.OrderTiming, bool)
	ActiveTimings() []timing.OrderTiming
	View(id kernel.OrderID) (engine.TimingView, bool)
	QueueView() engine.QueueView
}

// QueryFacade is the read-only surface shared by every presentation
// collaborator. It never mutates the queue and never fails: until the engine
// is started every answer is the zero value, and the display is "Ready!".
//
// Example:
//
//	facade := NewQueryFacade(timingEngine)
//	minutes := facade.RemainingTime(id)
//	fmt.Println(facade.FormatTimeDisplay(minutes)) // "1h 15m"
type QueryFacade struct {
	reader TimingReader
}

// NewQueryFacade wraps reader. A nil reader yields a facade that only answers defaults.
func NewQueryFacade(reader TimingReader) *QueryFacade {
	return &QueryFacade{reader: reader}
}

// IsReady reports whether answers come from a started engine.
func (f *QueryFacade) IsReady() bool {
	return f != nil && f.reader != nil && f.reader.IsStarted()
}

// RemainingTime returns the whole minutes left for an active order, 0 otherwise.
func (f *QueryFacade) RemainingTime(id kernel.OrderID) kernel.Minutes {
	if !f.IsReady() {
		return 0
	}
	return f.reader.RemainingTime(id)
}

// QueuePosition returns the order's rank, 0 when it is not queued.
func (f *QueryFacade) QueuePosition(id kernel.OrderID) int {
	if !f.IsReady() {
		return 0
	}
	return f.reader.QueuePosition(id)
}

// QueueLength returns the number of active orders.
func (f *QueryFacade) QueueLength() int {
	if !f.IsReady() {
		return 0
	}
	return f.reader.QueueLength()
}

// FormatTimeDisplay renders minutes for customers.
func (f *QueryFacade) FormatTimeDisplay(minutes kernel.Minutes) string {
	return timing.FormatTimeDisplay(minutes)
}

// Timing returns the current or archived timing of an order.
func (f *QueryFacade) Timing(id kernel.OrderID) (timing.OrderTiming, bool) {
	if !f.IsReady() {
		return timing.OrderTiming{}, false
	}
	return f.reader.Timing(id)
}

// ActiveTimings returns the queue in service order, empty before start.
func (f *QueryFacade) ActiveTimings() []timing.OrderTiming {
	if !f.IsReady() {
		return []timing.OrderTiming{}
	}
	return f.reader.ActiveTimings()
}

// View returns the order's timing and the queue length read together, so a
// recalculation cannot interleave between them.
func (f *QueryFacade) View(id kernel.OrderID) (engine.TimingView, bool) {
	if !f.IsReady() {
		return engine.TimingView{}, false
	}
	return f.reader.View(id)
}

// QueueView returns the queue and the instant it was read at, empty before start.
func (f *QueryFacade) QueueView() engine.QueueView {
	if !f.IsReady() {
		return engine.QueueView{Timings: []timing.OrderTiming{}}
	}
	return f.reader.QueueView()
}
