package queries_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/engine"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRandom int

func (f fixedRandom) IntN(n int) int { return int(f) % n }

var placedAt = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

// queueWithTwoOrders returns a started engine holding a 25-item order placed at
// placedAt and a 4-item order placed five minutes later, observed at that moment.
func queueWithTwoOrders(t *testing.T) *engine.TimingEngine {
	t.Helper()

	now := placedAt.Add(5 * time.Minute)
	eng := engine.New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)),
		engine.WithClock(func() time.Time { return now }),
		engine.WithRandom(fixedRandom(1)),
	)
	_, err := eng.Start(t.Context())
	require.NoError(t, err)

	_, err = eng.AddOrder(t.Context(), kernel.MustOrderIDFromString("A"), 25, placedAt)
	require.NoError(t, err)
	_, err = eng.AddOrder(t.Context(), kernel.MustOrderIDFromString("B"), 4, now)
	require.NoError(t, err)

	return eng
}

func TestQueryFacade_SafeDefaultsBeforeStart(t *testing.T) {
	id := kernel.MustOrderIDFromString("A")
	stopped := engine.New(nil, nil)

	testCases := []struct {
		name   string
		facade *queries.QueryFacade
	}{
		{name: "nil facade", facade: nil},
		{name: "nil reader", facade: queries.NewQueryFacade(nil)},
		{name: "engine not started", facade: queries.NewQueryFacade(stopped)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, tc.facade.IsReady())
			assert.Equal(t, kernel.Minutes(0), tc.facade.RemainingTime(id))
			assert.Equal(t, 0, tc.facade.QueuePosition(id))
			assert.Equal(t, 0, tc.facade.QueueLength())
			assert.Equal(t, "Ready!", tc.facade.FormatTimeDisplay(tc.facade.RemainingTime(id)))
			assert.Empty(t, tc.facade.ActiveTimings())

			_, ok := tc.facade.Timing(id)
			assert.False(t, ok)
		})
	}
}

func TestQueryFacade_DelegatesToEngine(t *testing.T) {
	facade := queries.NewQueryFacade(queueWithTwoOrders(t))
	a := kernel.MustOrderIDFromString("A")
	b := kernel.MustOrderIDFromString("B")

	assert.True(t, facade.IsReady())
	assert.Equal(t, 2, facade.QueueLength())
	assert.Equal(t, 1, facade.QueuePosition(a))
	assert.Equal(t, 2, facade.QueuePosition(b))
	assert.Equal(t, kernel.Minutes(24), facade.RemainingTime(a))
	assert.Equal(t, kernel.Minutes(4), facade.RemainingTime(b))
	assert.Equal(t, 0, facade.QueuePosition(kernel.MustOrderIDFromString("missing")))
}

func TestQueryFacade_FormatTimeDisplay(t *testing.T) {
	facade := queries.NewQueryFacade(nil)

	testCases := []struct {
		minutes kernel.Minutes
		want    string
	}{
		{minutes: -3, want: "Ready!"},
		{minutes: 0, want: "Ready!"},
		{minutes: 9, want: "9m"},
		{minutes: 60, want: "1h 0m"},
		{minutes: 75, want: "1h 15m"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, facade.FormatTimeDisplay(tc.minutes), "minutes=%d", tc.minutes)
	}
}

func TestGetOrderETAQueryHandler_Handle(t *testing.T) {
	eng := queueWithTwoOrders(t)
	handler := queries.NewGetOrderETAQueryHandler(queries.NewQueryFacade(eng))
	now := placedAt.Add(5 * time.Minute)

	t.Run("queued order", func(t *testing.T) {
		query, err := queries.NewGetOrderETAQuery(kernel.MustOrderIDFromString("A"))
		require.NoError(t, err)

		eta, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Equal(t, order.Pending, eta.Status)
		assert.True(t, eta.Queued)
		assert.Equal(t, 1, eta.QueuePosition)
		assert.Equal(t, 2, eta.QueueLength)
		assert.Equal(t, kernel.Minutes(24), eta.RemainingMinutes)
		assert.Equal(t, "24m", eta.Display)
		assert.Equal(t, now.Add(24*time.Minute), eta.EstimatedCompletion)
	})

	t.Run("ready order left the queue", func(t *testing.T) {
		b := kernel.MustOrderIDFromString("B")
		require.NoError(t, eng.UpdateStatus(t.Context(), b, order.Ready))
		query, err := queries.NewGetOrderETAQuery(b)
		require.NoError(t, err)

		eta, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Equal(t, order.Ready, eta.Status)
		assert.False(t, eta.Queued)
		assert.Zero(t, eta.QueuePosition)
		assert.Equal(t, 1, eta.QueueLength)
		assert.Equal(t, "Ready!", eta.Display)
	})

	t.Run("cancelled order has no display", func(t *testing.T) {
		a := kernel.MustOrderIDFromString("A")
		require.NoError(t, eng.UpdateStatus(t.Context(), a, order.Cancelled))
		query, err := queries.NewGetOrderETAQuery(a)
		require.NoError(t, err)

		eta, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, eta.Status)
		assert.Empty(t, eta.Display)
	})

	t.Run("unknown order", func(t *testing.T) {
		query, err := queries.NewGetOrderETAQuery(kernel.MustOrderIDFromString("nope"))
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), query)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestGetOrderETAQueryHandler_NotStarted(t *testing.T) {
	handler := queries.NewGetOrderETAQueryHandler(queries.NewQueryFacade(engine.New(nil, nil)))
	query, err := queries.NewGetOrderETAQuery(kernel.MustOrderIDFromString("A"))
	require.NoError(t, err)

	_, err = handler.Handle(t.Context(), query)

	require.ErrorIs(t, err, engine.ErrEngineNotStarted)
}

func TestGetOrderETAQuery_Validation(t *testing.T) {
	_, err := queries.NewGetOrderETAQuery(kernel.OrderID{})
	require.Error(t, err)

	handler := queries.NewGetOrderETAQueryHandler(queries.NewQueryFacade(nil))
	_, err = handler.Handle(t.Context(), queries.GetOrderETAQuery{})
	require.ErrorIs(t, err, queries.ErrGetOrderETAQueryIsNotConstructed)
}

func TestGetQueueQueryHandler_Handle(t *testing.T) {
	handler := queries.NewGetQueueQueryHandler(queries.NewQueryFacade(queueWithTwoOrders(t)))

	rows, err := handler.Handle(t.Context(), queries.NewGetQueueQuery())

	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "B", rows[0].OrderID.String())
	assert.Equal(t, 2, rows[0].QueuePosition)
	assert.Equal(t, kernel.Minutes(4), rows[0].BaseWaitMinutes)
	assert.Equal(t, kernel.Minutes(4), rows[0].ActualWaitMinutes)
	assert.Equal(t, "4m", rows[0].Display)

	assert.Equal(t, "A", rows[1].OrderID.String())
	assert.Equal(t, 1, rows[1].QueuePosition)
	assert.Equal(t, 25, rows[1].ItemCount)
	assert.Equal(t, kernel.Minutes(24), rows[1].ActualWaitMinutes)
	assert.Equal(t, kernel.Minutes(24), rows[1].RemainingMinutes)
}

func TestGetQueueQueryHandler_EmptyBeforeStart(t *testing.T) {
	handler := queries.NewGetQueueQueryHandler(queries.NewQueryFacade(engine.New(nil, nil)))

	rows, err := handler.Handle(t.Context(), queries.NewGetQueueQuery())

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestGetQueueQuery_NotConstructedViaConstructor(t *testing.T) {
	handler := queries.NewGetQueueQueryHandler(queries.NewQueryFacade(nil))

	rows, err := handler.Handle(t.Context(), queries.GetQueueQuery{})

	require.ErrorIs(t, err, queries.ErrGetQueueQueryIsNotConstructed)
	assert.Nil(t, rows)
}

// recalculatedReader answers per-field lookups as if a recalculation had
// removed every order since the view was taken.
type recalculatedReader struct {
	*engine.TimingEngine
}

func (recalculatedReader) QueuePosition(kernel.OrderID) int { return 0 }
func (recalculatedReader) RemainingTime(kernel.OrderID) kernel.Minutes { return 0 }
func (recalculatedReader) QueueLength() int { return 0 }

func TestQueryHandlers_AnswerFromOneRead(t *testing.T) {
	facade := queries.NewQueryFacade(recalculatedReader{queueWithTwoOrders(t)})

	t.Run("order eta", func(t *testing.T) {
		query, err := queries.NewGetOrderETAQuery(kernel.MustOrderIDFromString("A"))
		require.NoError(t, err)

		eta, err := queries.NewGetOrderETAQueryHandler(facade).Handle(t.Context(), query)

		require.NoError(t, err)
		assert.True(t, eta.Queued)
		assert.Equal(t, 1, eta.QueuePosition)
		assert.Equal(t, 2, eta.QueueLength)
		assert.Equal(t, kernel.Minutes(24), eta.RemainingMinutes)
		assert.Equal(t, "24m", eta.Display)
	})

	t.Run("queue", func(t *testing.T) {
		rows, err := queries.NewGetQueueQueryHandler(facade).Handle(t.Context(), queries.NewGetQueueQuery())

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, kernel.Minutes(4), rows[0].RemainingMinutes)
		assert.Equal(t, kernel.Minutes(24), rows[1].RemainingMinutes)
		assert.Equal(t, "24m", rows[1].Display)
	})
}
