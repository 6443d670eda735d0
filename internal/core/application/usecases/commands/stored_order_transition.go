package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// transitionStoredOrder loads an order, applies change to it and persists the
// result in one transaction. It returns the status before and after the change.
// A concurrent writer that moved the order after it was loaded makes the write
// fail with ports.ErrOrderStatusConflict.
func transitionStoredOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	id kernel.OrderID,
	change func(*order.Order) error,
) (order.Status, order.Status, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Unknown, order.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	stored, err := repo.Get(ctx, id)
	if err != nil {
		return order.Unknown, order.Unknown, err
	}

	from := stored.Status()
	if err = change(stored); err != nil {
		return from, from, err
	}

	if err = repo.Update(ctx, stored, from); err != nil {
		return from, from, err
	}

	if err = uow.Commit(ctx); err != nil {
		return from, from, err
	}

	return from, stored.Status(), nil
}
