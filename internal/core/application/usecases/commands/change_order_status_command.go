package commands

import (
	"errors"
	"fmt"
	"strings"

	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/pkg/errs"
	"lotflow/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand closes an order, either as completed or cancelled.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID string
	status  order.Status

	guard guard.ConstructorGuard
}

func NewChangeOrderStatusCommand(orderID, status string) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStatus(status),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return cmd, nil
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) OrderID() string {
	return c.orderID
}

func (c ChangeOrderStatusCommand) Status() order.Status {
	return c.status
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return errs.NewValueIsRequiredError("orderId")
	}
	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setStatus(raw string) error {
	status, err := order.ParseStatus(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if status != order.Completed && status != order.Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s cannot be set directly, use %s or %s", status, order.Completed, order.Cancelled))
	}
	c.status = status
	return nil
}
