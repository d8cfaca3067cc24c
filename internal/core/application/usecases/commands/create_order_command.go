package commands

import (
	"errors"
	"fmt"
	"strings"

	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/pkg/errs"
	"lotflow/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand registers a planned production job imported from planning.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand("PO-24-0117", "FL-100", "FL-Flange-100", 25)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, publisher, logger)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         string
	itemCode        string
	item            string
	plannedQuantity int

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates that the order id is present and not the
// unassigned sentinel, the item code is present and the planned quantity is positive.
func NewCreateOrderCommand(orderID, itemCode, item string, plannedQuantity int) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		item:  strings.TrimSpace(item),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setItemCode(itemCode),
		cmd.setPlannedQuantity(plannedQuantity),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() string {
	return c.orderID
}

func (c CreateOrderCommand) ItemCode() string {
	return c.itemCode
}

func (c CreateOrderCommand) Item() string {
	return c.item
}

func (c CreateOrderCommand) PlannedQuantity() int {
	return c.plannedQuantity
}

func (c *CreateOrderCommand) setOrderID(orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return errs.NewValueIsRequiredError("orderId")
	}
	if order.IsUnassigned(orderID) {
		return errs.NewValueIsInvalidErrorWithCause("orderId", fmt.Errorf("%s is reserved", orderID))
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setItemCode(itemCode string) error {
	itemCode = strings.TrimSpace(itemCode)
	if itemCode == "" {
		return errs.NewValueIsRequiredError("itemCode")
	}
	c.itemCode = itemCode
	return nil
}

func (c *CreateOrderCommand) setPlannedQuantity(plannedQuantity int) error {
	if plannedQuantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("plannedQuantity",
			fmt.Errorf("%d is not greater than 0", plannedQuantity))
	}
	c.plannedQuantity = plannedQuantity
	return nil
}
