package commands

import (
	"context"
	"log/slog"

	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/core/ports"
)

// CreateOrderCommandHandler stores new pending orders.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, publisher, logger)
//	cmd, _ := NewCreateOrderCommand("PO-24-0117", "FL-100", "FL-Flange-100", 25)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "CreateOrderCommandHandler"),
	}
}

// Handle creates the order in pending status. A duplicate order id surfaces as
// errs.ConflictError from the repository.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.ItemCode(), cmd.Item(), cmd.PlannedQuantity())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	committed{orders: []*order.Order{o}}.publish(ctx, h.publisher, h.logger)
	return nil
}
