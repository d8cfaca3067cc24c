package commands

import (
	"context"
	"errors"
	"log/slog"

	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/unit"
	"lotflow/internal/core/ports"
)

// SubmitQualityDecisionResult describes the unit after the decision.
type SubmitQualityDecisionResult struct {
	LotNumber        string
	Station          kernel.Station
	Stage            unit.Stage
	Status           unit.Status
	RoutingUndefined bool
}

// SubmitQualityDecisionCommandHandler applies quality decisions to units.
//
// Approved units are routed by the configured router. When no route leaves the unit's
// station the unit stays where it is, the attempt is kept in its history and the
// decision still succeeds with RoutingUndefined set. Rejecting a unit that belongs to
// a real order rolls back one start at its origin station; a counter that is already
// at zero is logged and tolerated.
type SubmitQualityDecisionCommandHandler struct {
	uowFactory UoWFactory
	router     unit.Router
	reconciler *OrderReconciler
	publisher  ports.EventPublisher
	clock      Clock
	logger     *slog.Logger
	metrics    Metrics
}

func NewSubmitQualityDecisionCommandHandler(
	uowFactory UoWFactory,
	router unit.Router,
	reconciler *OrderReconciler,
	publisher ports.EventPublisher,
	clock Clock,
	logger *slog.Logger,
	metrics Metrics,
) SubmitQualityDecisionCommandHandler {
	return SubmitQualityDecisionCommandHandler{
		uowFactory: uowFactory,
		router:     router,
		reconciler: reconciler,
		publisher:  publisher,
		clock:      clock,
		logger:     logger.With("component", "SubmitQualityDecisionCommandHandler"),
		metrics:    metricsOrNoop(metrics),
	}
}

func (h SubmitQualityDecisionCommandHandler) Handle(
	ctx context.Context,
	command SubmitQualityDecisionCommand,
) (SubmitQualityDecisionResult, error) {
	if err := command.Validate(); err != nil {
		return SubmitQualityDecisionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SubmitQualityDecisionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	unitRepo := uow.UnitRepository()

	u, err := unitRepo.Get(ctx, command.LotNumber())
	if err != nil {
		return SubmitQualityDecisionResult{}, err
	}

	err = u.Decide(command.Decision(), h.router, command.Reasons(), command.Actor(), command.Notes(), h.clock.Now())
	routingUndefined := errors.Is(err, unit.ErrRoutingUndefined)
	if err != nil && !routingUndefined {
		return SubmitQualityDecisionResult{}, err
	}

	if err = unitRepo.Update(ctx, u); err != nil {
		return SubmitQualityDecisionResult{}, err
	}

	var changes committed
	changes.units = append(changes.units, u)

	if command.Decision() == unit.DecisionRejected && u.HasRealOrder() {
		orderRepo := uow.OrderRepository()
		if _, err = h.reconciler.RollbackStart(ctx, orderRepo, u.OrderID(), u.OriginStation()); err != nil &&
			!errors.Is(err, ErrCounterDesync) {
			return SubmitQualityDecisionResult{}, err
		}

		o, getErr := orderRepo.Get(ctx, u.OrderID())
		if getErr != nil {
			return SubmitQualityDecisionResult{}, getErr
		}
		changes.orders = append(changes.orders, o)
	}

	if err = uow.Commit(ctx); err != nil {
		return SubmitQualityDecisionResult{}, err
	}

	h.metrics.DecisionApplied(command.Decision())
	if routingUndefined {
		h.metrics.RoutingUndefined(u.CurrentStation())
		h.logger.WarnContext(ctx, "no route defined, unit pinned at current station",
			"lotNumber", u.LotNumber(), "station", u.CurrentStation().String(), "item", u.Item())
	}
	changes.publish(ctx, h.publisher, h.logger)

	return SubmitQualityDecisionResult{
		LotNumber:        u.LotNumber(),
		Station:          u.CurrentStation(),
		Stage:            u.Stage(),
		Status:           u.Status(),
		RoutingUndefined: routingUndefined,
	}, nil
}
