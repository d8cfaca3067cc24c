// Package commands contains the operations that change lot and order state.
// Every command is validated by its constructor, and every handler runs its writes in
// one unit of work and publishes the committed state afterwards.
package commands

import (
	"context"
	"time"

	"lotflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// UnitRepoFactory provides access to the unit repository within a transaction.
	UnitRepoFactory interface {
		UnitRepository() ports.UnitRepository
	}

	// LotSequenceRepoFactory provides access to lot sequences within a transaction.
	LotSequenceRepoFactory interface {
		LotSequenceRepository() ports.LotSequenceRepository
	}

	// NotificationRepoFactory provides access to the notification outbox within a transaction.
	NotificationRepoFactory interface {
		NotificationRepository() ports.NotificationRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW manages transactions across units, orders, lot sequences and notifications.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   unitRepo := uow.UnitRepository()
	//   orderRepo := uow.OrderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		UnitRepoFactory
		OrderRepoFactory
		LotSequenceRepoFactory
		NotificationRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)

// Clock supplies the current time to handlers.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
