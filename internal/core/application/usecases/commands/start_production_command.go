package commands

import (
	"errors"
	"fmt"
	"strings"

	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/pkg/errs"
	"lotflow/internal/pkg/guard"
)

var ErrStartProductionCommandIsNotConstructed = errors.New(
	"StartProductionCommand must be created via NewStartProductionCommand constructor",
)

// MaxUnitsPerBatch bounds a single StartProduction request.
const MaxUnitsPerBatch = 500

// StartProductionCommand requests count new units for an order at a station.
//
// Example:
//
//	cmd, err := NewStartProductionCommand("PO-24-0117", "BH12", 3, "operator-7", "")
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type StartProductionCommand struct { //nolint:recvcheck //using for validation
	orderID string
	station kernel.Station
	count   int
	actor   string
	note    string

	guard guard.ConstructorGuard
}

func NewStartProductionCommand(orderID, station string, count int, actor, note string) (StartProductionCommand, error) {
	cmd := StartProductionCommand{
		note:  strings.TrimSpace(note),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStation(station),
		cmd.setCount(count),
		cmd.setActor(actor),
	); err != nil {
		return StartProductionCommand{}, err
	}

	return cmd, nil
}

func (c StartProductionCommand) Validate() error {
	return c.guard.Validate(ErrStartProductionCommandIsNotConstructed)
}

func (c StartProductionCommand) OrderID() string {
	return c.orderID
}

func (c StartProductionCommand) Station() kernel.Station {
	return c.station
}

func (c StartProductionCommand) Count() int {
	return c.count
}

func (c StartProductionCommand) Actor() string {
	return c.actor
}

func (c StartProductionCommand) Note() string {
	return c.note
}

func (c *StartProductionCommand) setOrderID(orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return errs.NewValueIsRequiredError("orderId")
	}
	c.orderID = orderID
	return nil
}

func (c *StartProductionCommand) setStation(raw string) error {
	station, err := kernel.NewStation(raw)
	if err != nil {
		return err
	}
	c.station = station
	return nil
}

func (c *StartProductionCommand) setCount(count int) error {
	if count < 1 || count > MaxUnitsPerBatch {
		return errs.NewValueIsOutOfRangeErrorWithCause("count", count, 1, MaxUnitsPerBatch,
			fmt.Errorf("requested %d units", count))
	}
	c.count = count
	return nil
}

func (c *StartProductionCommand) setActor(actor string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}
