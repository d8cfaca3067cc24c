package commands

import (
	"context"
	"log/slog"

	"lotflow/internal/core/domain/model/notification"
	"lotflow/internal/core/ports"
)

// FlagOverdueReworkCommandHandler emits one overdue notification per held unit.
//
// The reminder flag is claimed with a conditional update before the notification is
// stored, so overlapping scans (another replica, a slow previous run) never notify
// twice for the same hold. A new TempRejected decision clears the flag and arms the
// reminder again.
type FlagOverdueReworkCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	clock      Clock
	logger     *slog.Logger
	metrics    Metrics
}

func NewFlagOverdueReworkCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	clock Clock,
	logger *slog.Logger,
	metrics Metrics,
) FlagOverdueReworkCommandHandler {
	return FlagOverdueReworkCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		clock:      clock,
		logger:     logger.With("component", "FlagOverdueReworkCommandHandler"),
		metrics:    metricsOrNoop(metrics),
	}
}

// Handle returns the number of notifications emitted by this scan.
func (h FlagOverdueReworkCommandHandler) Handle(ctx context.Context, command FlagOverdueReworkCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	unitRepo := uow.UnitRepository()
	notificationRepo := uow.NotificationRepository()

	now := h.clock.Now()
	held, err := unitRepo.GetHeldSince(ctx, now.Add(-command.Threshold()))
	if err != nil {
		return 0, err
	}

	var changes committed
	for _, u := range held {
		if !u.IsOverdue(now, command.Threshold()) {
			continue
		}

		claimed, claimErr := unitRepo.MarkReminderSent(ctx, u.LotNumber(), now)
		if claimErr != nil {
			return 0, claimErr
		}
		if !claimed {
			continue
		}
		u.MarkReminderSent(now)

		n, notifyErr := notification.NewOverdueRework(
			u.LotNumber(), u.OrderID(), u.CurrentStation(), u.Inspection().Timestamp(), now)
		if notifyErr != nil {
			return 0, notifyErr
		}
		if err = notificationRepo.Add(ctx, n); err != nil {
			return 0, err
		}

		changes.units = append(changes.units, u)
		changes.notifications = append(changes.notifications, n)
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	for range changes.notifications {
		h.metrics.NotificationEmitted(notification.KindOverdueRework)
	}
	if len(changes.notifications) > 0 {
		h.logger.InfoContext(ctx, "overdue rework flagged", "count", len(changes.notifications))
	}
	changes.publish(ctx, h.publisher, h.logger)

	return len(changes.notifications), nil
}
