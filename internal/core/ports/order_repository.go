// Package ports defines the persistence and publishing contracts of the lot tracking
// core. Adapters implement them; command handlers depend only on these interfaces.
package ports

import (
	"context"

	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates and their
// per-station started counters.
type OrderRepository interface {
	// Add persists a new order. A duplicate order id is reported as errs.ConflictError.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the order status. Counters are never written through Update.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order together with all station counters.
	// Returns errs.ObjectNotFoundError when the order does not exist.
	Get(ctx context.Context, id string) (*order.Order, error)

	// IncrementStarted atomically adds one to the counter of (orderID, station),
	// creating it at 1 when absent, and returns the value after the increment.
	IncrementStarted(ctx context.Context, orderID string, station kernel.Station) (int, error)

	// DecrementStarted atomically subtracts one from the counter of (orderID, station),
	// never going below zero. It returns the value after the update and whether a unit
	// was actually subtracted; false means the counter was missing or already zero.
	DecrementStarted(ctx context.Context, orderID string, station kernel.Station) (int, bool, error)
}
