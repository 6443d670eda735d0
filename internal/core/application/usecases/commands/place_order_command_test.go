package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlaceOrderCommand_ValidInput(t *testing.T) {
	id := kernel.NewOrderID()
	createdAt := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

	cmd, err := commands.NewPlaceOrderCommand(id, 7, createdAt)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, 7, cmd.ItemCount())
	assert.Equal(t, createdAt, cmd.CreatedAt())
}

func TestNewPlaceOrderCommand_ZeroCreatedAtIsAllowed(t *testing.T) {
	cmd, err := commands.NewPlaceOrderCommand(kernel.NewOrderID(), 1, time.Time{})

	require.NoError(t, err)
	assert.True(t, cmd.CreatedAt().IsZero())
}

func TestNewPlaceOrderCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewPlaceOrderCommand(kernel.OrderID{}, 3, time.Time{})

	require.ErrorIs(t, err, kernel.ErrOrderIDIsNotConstructed)
}

func TestNewPlaceOrderCommand_InvalidItemCount(t *testing.T) {
	_, err := commands.NewPlaceOrderCommand(kernel.NewOrderID(), 0, time.Time{})

	require.ErrorIs(t, err, commands.ErrItemCountIsInvalid)
}

func TestNewPlaceOrderCommand_JoinsErrors(t *testing.T) {
	_, err := commands.NewPlaceOrderCommand(kernel.OrderID{}, -1, time.Time{})

	require.ErrorIs(t, err, kernel.ErrOrderIDIsNotConstructed)
	require.ErrorIs(t, err, commands.ErrItemCountIsInvalid)
}

func TestStatusCommands_RequireOrderID(t *testing.T) {
	_, err := commands.NewCancelOrderCommand(kernel.OrderID{})
	require.ErrorIs(t, err, kernel.ErrOrderIDIsNotConstructed)

	_, err = commands.NewCompleteOrderCommand(kernel.OrderID{})
	require.ErrorIs(t, err, kernel.ErrOrderIDIsNotConstructed)

	assert.ErrorIs(t, commands.CancelOrderCommand{}.Validate(), commands.ErrCancelOrderCommandIsNotConstructed)
	assert.ErrorIs(t, commands.CompleteOrderCommand{}.Validate(), commands.ErrCompleteOrderCommandIsNotConstructed)
}

func TestNewAdvanceStatusesCommand(t *testing.T) {
	now := time.Now()

	cmd, err := commands.NewAdvanceStatusesCommand(now)
	require.NoError(t, err)
	assert.Equal(t, now, cmd.Now())

	_, err = commands.NewAdvanceStatusesCommand(time.Time{})
	require.Error(t, err)
}
