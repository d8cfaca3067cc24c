package commands

import (
	"context"
	"log/slog"

	"lotflow/internal/core/domain/model/notification"
	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/core/domain/model/unit"
	"lotflow/internal/core/ports"
)

// committed collects the aggregates written by one unit of work.
type committed struct {
	units         []*unit.ProductionUnit
	orders        []*order.Order
	notifications []*notification.Notification
}

// publish pushes committed state to subscribers. Failures are logged only: the
// state is already stored and subscribers can reload it.
func (c committed) publish(ctx context.Context, publisher ports.EventPublisher, logger *slog.Logger) {
	if publisher == nil {
		return
	}

	for _, u := range c.units {
		if err := publisher.UnitChanged(ctx, u); err != nil {
			logger.WarnContext(ctx, "failed to publish unit change", "lotNumber", u.LotNumber(), "error", err)
		}
	}
	for _, o := range c.orders {
		if err := publisher.OrderChanged(ctx, o); err != nil {
			logger.WarnContext(ctx, "failed to publish order change", "orderId", o.ID(), "error", err)
		}
	}
	for _, n := range c.notifications {
		if err := publisher.NotificationRaised(ctx, n); err != nil {
			logger.WarnContext(ctx, "failed to publish notification",
				"kind", n.Kind().String(), "id", n.ID().String(), "error", err)
		}
	}
}
