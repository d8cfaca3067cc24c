package commands

import (
	"errors"
	"fmt"
	"strings"

	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/pkg/errs"
	"lotflow/internal/pkg/guard"
)

var ErrReassignOverproducedUnitCommandIsNotConstructed = errors.New(
	"ReassignOverproducedUnitCommand must be created via NewReassignOverproducedUnitCommand constructor",
)

// ReassignOverproducedUnitCommand attaches an overproduced lot to a real order.
type ReassignOverproducedUnitCommand struct { //nolint:recvcheck //using for validation
	lotNumber string
	orderID   string
	actor     string

	guard guard.ConstructorGuard
}

func NewReassignOverproducedUnitCommand(lotNumber, orderID, actor string) (ReassignOverproducedUnitCommand, error) {
	cmd := ReassignOverproducedUnitCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setLotNumber(lotNumber),
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
	); err != nil {
		return ReassignOverproducedUnitCommand{}, err
	}

	return cmd, nil
}

func (c ReassignOverproducedUnitCommand) Validate() error {
	return c.guard.Validate(ErrReassignOverproducedUnitCommandIsNotConstructed)
}

func (c ReassignOverproducedUnitCommand) LotNumber() string {
	return c.lotNumber
}

func (c ReassignOverproducedUnitCommand) OrderID() string {
	return c.orderID
}

func (c ReassignOverproducedUnitCommand) Actor() string {
	return c.actor
}

func (c *ReassignOverproducedUnitCommand) setLotNumber(lotNumber string) error {
	lotNumber = strings.TrimSpace(lotNumber)
	if lotNumber == "" {
		return errs.NewValueIsRequiredError("lotNumber")
	}
	c.lotNumber = lotNumber
	return nil
}

func (c *ReassignOverproducedUnitCommand) setOrderID(orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return errs.NewValueIsRequiredError("orderId")
	}
	if order.IsUnassigned(orderID) {
		return errs.NewValueIsInvalidErrorWithCause("orderId", fmt.Errorf("%s is not a real order", orderID))
	}
	c.orderID = orderID
	return nil
}

func (c *ReassignOverproducedUnitCommand) setActor(actor string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}
