package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/core/ports"
)

// ErrCounterDesync is reported when a rollback finds no started unit to subtract,
// meaning the counter and the stored units have drifted apart.
var ErrCounterDesync = errors.New("order counter out of sync")

// OrderReconciler keeps an order's per-station started counters in line with the
// units created and rejected for it. Counter updates are delegated to atomic
// repository operations, so concurrent reconcilers never lose updates.
//
// After N RecordStart and M RollbackStart calls for one (order, station) the counter
// equals max(N - M, 0).
type OrderReconciler struct {
	logger  *slog.Logger
	metrics Metrics
}

func NewOrderReconciler(logger *slog.Logger, metrics Metrics) *OrderReconciler {
	return &OrderReconciler{
		logger:  logger.With("component", "OrderReconciler"),
		metrics: metricsOrNoop(metrics),
	}
}

// RecordStart counts one more unit started for o at station and reports whether the
// new count exceeds the planned quantity. The observed counter is mirrored on o.
// Overflowing units are counted too.
func (r *OrderReconciler) RecordStart(
	ctx context.Context,
	repo ports.OrderRepository,
	o *order.Order,
	station kernel.Station,
) (started int, overflow bool, err error) {
	if err = o.Validate(); err != nil {
		return 0, false, err
	}

	started, err = repo.IncrementStarted(ctx, o.ID(), station)
	if err != nil {
		return 0, false, err
	}
	if err = o.SetStarted(station, started); err != nil {
		return 0, false, err
	}

	return started, o.IsOverflow(started), nil
}

// RollbackStart removes one started unit for (orderID, station), never going below
// zero. Callers must not roll back for the unassigned sentinel. A rollback that finds
// nothing to subtract is logged and returned as ErrCounterDesync; it does not fail
// the surrounding operation unless the caller decides so.
func (r *OrderReconciler) RollbackStart(
	ctx context.Context,
	repo ports.OrderRepository,
	orderID string,
	station kernel.Station,
) (int, error) {
	if order.IsUnassigned(orderID) {
		return 0, fmt.Errorf("rollback for %s order is not allowed", orderID)
	}

	started, decremented, err := repo.DecrementStarted(ctx, orderID, station)
	if err != nil {
		return 0, err
	}
	if !decremented {
		r.metrics.CounterDesync(station)
		r.logger.WarnContext(ctx, "started counter already at zero on rollback",
			"orderId", orderID, "station", station.String())
		return started, fmt.Errorf("%w: order %s at %s", ErrCounterDesync, orderID, station)
	}

	return started, nil
}
