package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/core/domain/model/unit"
	"lotflow/internal/core/ports"
	"lotflow/internal/pkg/errs"
)

// ReassignOverproducedUnitCommandHandler moves an overproduced unit onto a real order.
// The start counted for the order the unit overflowed is moved to the target at the
// unit's origin station. A target without planned quantity left is refused.
type ReassignOverproducedUnitCommandHandler struct {
	uowFactory UoWFactory
	reconciler *OrderReconciler
	publisher  ports.EventPublisher
	clock      Clock
	logger     *slog.Logger
}

func NewReassignOverproducedUnitCommandHandler(
	uowFactory UoWFactory,
	reconciler *OrderReconciler,
	publisher ports.EventPublisher,
	clock Clock,
	logger *slog.Logger,
) ReassignOverproducedUnitCommandHandler {
	return ReassignOverproducedUnitCommandHandler{
		uowFactory: uowFactory,
		reconciler: reconciler,
		publisher:  publisher,
		clock:      clock,
		logger:     logger.With("component", "ReassignOverproducedUnitCommandHandler"),
	}
}

func (h ReassignOverproducedUnitCommandHandler) Handle(ctx context.Context, command ReassignOverproducedUnitCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	unitRepo := uow.UnitRepository()
	orderRepo := uow.OrderRepository()

	u, err := unitRepo.Get(ctx, command.LotNumber())
	if err != nil {
		return err
	}

	target, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}
	if err = target.ValidateAcceptsProduction(); err != nil {
		return err
	}
	if !u.IsOverproduction() {
		return unit.ErrUnitIsNotOverproduced
	}
	if u.Status() == unit.StatusRejected {
		return unit.ErrUnitIsTerminal
	}

	changed, err := h.moveStart(ctx, orderRepo, u.OverproducedFrom(), target, u.OriginStation())
	if err != nil {
		return err
	}

	if err = u.Reassign(target.ID(), command.Actor(), h.clock.Now()); err != nil {
		return err
	}
	if err = unitRepo.Update(ctx, u); err != nil {
		return err
	}

	if target.Status() == order.Pending {
		if err = target.Start(); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, target); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	committed{units: []*unit.ProductionUnit{u}, orders: changed}.publish(ctx, h.publisher, h.logger)
	return nil
}

// moveStart transfers one started unit at station from source to target and returns
// the orders whose counters changed. When source is the target the start is already
// counted there and only the planned quantity is checked. An empty source, as stored
// for units created before the source order was recorded, releases nothing.
func (h ReassignOverproducedUnitCommandHandler) moveStart(
	ctx context.Context,
	repo ports.OrderRepository,
	source string,
	target *order.Order,
	station kernel.Station,
) ([]*order.Order, error) {
	if source == target.ID() {
		if started := target.StartedAt(station); target.IsOverflow(started) {
			return nil, fullError(target, station, started)
		}
		return []*order.Order{target}, nil
	}

	started, overflow, err := h.reconciler.RecordStart(ctx, repo, target, station)
	if err != nil {
		return nil, err
	}
	if overflow {
		return nil, fullError(target, station, started-1)
	}

	changed := []*order.Order{target}
	if source == "" {
		return changed, nil
	}

	if _, err = h.reconciler.RollbackStart(ctx, repo, source, station); err != nil && !errors.Is(err, ErrCounterDesync) {
		return nil, err
	}

	released, err := repo.Get(ctx, source)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		h.logger.WarnContext(ctx, "source order of overproduced unit no longer exists",
			"orderId", source, "station", station.String())
	case err != nil:
		return nil, err
	default:
		changed = append(changed, released)
	}
	return changed, nil
}

func fullError(o *order.Order, station kernel.Station, started int) error {
	return fmt.Errorf("%w: order %s already started %d of %d at %s",
		order.ErrOrderIsFull, o.ID(), started, o.PlannedQuantity(), station)
}
