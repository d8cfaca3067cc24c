package ports

import (
	"context"

	"lotflow/internal/core/domain/model/notification"
	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/core/domain/model/unit"
)

// EventPublisher pushes committed state to subscribers. Command handlers call it
// after a successful commit; an error never undoes the committed change.
type EventPublisher interface {
	UnitChanged(ctx context.Context, aggregate *unit.ProductionUnit) error
	OrderChanged(ctx context.Context, aggregate *order.Order) error
	NotificationRaised(ctx context.Context, n *notification.Notification) error
}
