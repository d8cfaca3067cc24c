package commands

import (
	"context"
	"log/slog"

	"lotflow/internal/core/domain/model/notification"
	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/core/domain/model/unit"
	"lotflow/internal/core/domain/services"
	"lotflow/internal/core/ports"
)

// StartProductionResult lists the lots created by one StartProduction batch.
type StartProductionResult struct {
	OrderID      string
	Lots         []string
	Overproduced []string
	Started      int
}

// StartProductionCommandHandler creates production units for an order.
//
// For every requested unit the handler records a start on the order counter, draws
// the next lot sequence for the station's prefix and stores the unit. Units whose
// start pushed the counter above the planned quantity are flagged as overproduction
// and carry the unassigned order id. The first start of a pending order moves it to
// in progress. At most one overproduction notification is stored per batch.
// Everything happens in one transaction; committed state is published afterwards.
//
// Example:
//
//	handler := NewStartProductionCommandHandler(uowFactory, reconciler, publisher, SystemClock{}, logger, metrics)
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("created %v, overproduced %v\n", result.Lots, result.Overproduced)
type StartProductionCommandHandler struct {
	uowFactory UoWFactory
	reconciler *OrderReconciler
	allocator  services.LotNumberAllocator
	publisher  ports.EventPublisher
	clock      Clock
	logger     *slog.Logger
	metrics    Metrics
}

func NewStartProductionCommandHandler(
	uowFactory UoWFactory,
	reconciler *OrderReconciler,
	publisher ports.EventPublisher,
	clock Clock,
	logger *slog.Logger,
	metrics Metrics,
) StartProductionCommandHandler {
	return StartProductionCommandHandler{
		uowFactory: uowFactory,
		reconciler: reconciler,
		allocator:  services.NewLotNumberAllocator(),
		publisher:  publisher,
		clock:      clock,
		logger:     logger.With("component", "StartProductionCommandHandler"),
		metrics:    metricsOrNoop(metrics),
	}
}

func (h StartProductionCommandHandler) Handle(
	ctx context.Context,
	command StartProductionCommand,
) (StartProductionResult, error) {
	if err := command.Validate(); err != nil {
		return StartProductionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return StartProductionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	unitRepo := uow.UnitRepository()
	sequenceRepo := uow.LotSequenceRepository()

	o, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return StartProductionResult{}, err
	}
	if err = o.ValidateAcceptsProduction(); err != nil {
		return StartProductionResult{}, err
	}

	now := h.clock.Now()
	prefix := h.allocator.Prefix(command.Station(), now)
	result := StartProductionResult{OrderID: o.ID()}
	var changes committed

	for range command.Count() {
		started, overflow, recordErr := h.reconciler.RecordStart(ctx, orderRepo, o, command.Station())
		if recordErr != nil {
			return StartProductionResult{}, recordErr
		}
		result.Started = started

		sequence, seqErr := sequenceRepo.Next(ctx, prefix)
		if seqErr != nil {
			return StartProductionResult{}, seqErr
		}

		u, unitErr := unit.NewProductionUnit(unit.NewUnitParams{
			LotNumber:      h.allocator.Format(prefix, sequence),
			OrderID:        o.ID(),
			ItemCode:       o.ItemCode(),
			Item:           o.Item(),
			Station:        command.Station(),
			Overproduction: overflow,
			Actor:          command.Actor(),
			Note:           command.Note(),
			Now:            now,
		})
		if unitErr != nil {
			return StartProductionResult{}, unitErr
		}
		if err = unitRepo.Add(ctx, u); err != nil {
			return StartProductionResult{}, err
		}

		result.Lots = append(result.Lots, u.LotNumber())
		if overflow {
			result.Overproduced = append(result.Overproduced, u.LotNumber())
		}
		changes.units = append(changes.units, u)
	}

	if o.Status() == order.Pending {
		if err = o.Start(); err != nil {
			return StartProductionResult{}, err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return StartProductionResult{}, err
		}
	}
	changes.orders = append(changes.orders, o)

	if len(result.Overproduced) > 0 {
		n, notifyErr := notification.NewOverproduction(
			o.ID(), command.Station(), result.Overproduced, o.PlannedQuantity(), result.Started, now)
		if notifyErr != nil {
			return StartProductionResult{}, notifyErr
		}
		if err = uow.NotificationRepository().Add(ctx, n); err != nil {
			return StartProductionResult{}, err
		}
		changes.notifications = append(changes.notifications, n)
	}

	if err = uow.Commit(ctx); err != nil {
		return StartProductionResult{}, err
	}

	h.metrics.UnitsStarted(command.Station(), len(result.Lots))
	if len(result.Overproduced) > 0 {
		h.metrics.UnitsOverproduced(command.Station(), len(result.Overproduced))
		h.metrics.NotificationEmitted(notification.KindOverproduction)
		h.logger.InfoContext(ctx, "overproduction detected",
			"orderId", o.ID(), "station", command.Station().String(), "lots", result.Overproduced)
	}
	changes.publish(ctx, h.publisher, h.logger)

	return result, nil
}
