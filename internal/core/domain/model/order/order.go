package order

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/pkg/errs"
)

// UnassignedOrderID is the reserved order id carried by overproduced units until they
// are reassigned to a real order. No order can be created with this id.
const UnassignedOrderID = "UNASSIGNED"

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderIsFull is returned when an existing unit cannot be attached to an order
	// because its started counter already reached the planned quantity.
	ErrOrderIsFull = errors.New("order has no planned quantity left")
)

// IsUnassigned reports whether id is the overproduction sentinel.
func IsUnassigned(id string) bool {
	return id == UnassignedOrderID
}

// Order is a planned production job imported from planning.
//
// Order follows these invariants:
//   - orderId is non-empty and never the unassigned sentinel
//   - plannedQuantity is positive
//   - startedAtStation counts units created per station, never negative
//
// The started counters are owned by the store: they are advanced and rolled back
// with atomic operations, and the aggregate only mirrors the last observed values.
type Order struct {
	id               string
	itemCode         string
	item             string
	plannedQuantity  int
	startedAtStation map[kernel.Station]int
	status           Status
	isConstructed    bool
}

// NewOrder creates a Pending order with no started units.
//
// Example:
//
//	o, err := order.NewOrder("PO-24-0117", "FL-100", "FL-Flange-100", 5)
//	if err != nil {
//	    return err
//	}
func NewOrder(id, itemCode, item string, plannedQuantity int) (*Order, error) {
	o := &Order{
		status:           Pending,
		startedAtStation: make(map[kernel.Station]int),
		isConstructed:    true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setItem(itemCode, item),
		o.setPlannedQuantity(plannedQuantity),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persistence.
func RestoreOrder(
	id, itemCode, item string,
	plannedQuantity int,
	status Status,
	startedAtStation map[kernel.Station]int,
) (*Order, error) {
	o, err := NewOrder(id, itemCode, item, plannedQuantity)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	o.status = status

	for station, count := range startedAtStation {
		if err = o.SetStarted(station, count); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Validate ensures the Order was built by a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() string {
	return o.id
}

func (o *Order) ItemCode() string {
	return o.itemCode
}

func (o *Order) Item() string {
	return o.item
}

func (o *Order) PlannedQuantity() int {
	return o.plannedQuantity
}

func (o *Order) Status() Status {
	return o.status
}

// StartedAt returns the started counter for station, 0 when absent.
func (o *Order) StartedAt(station kernel.Station) int {
	return o.startedAtStation[station]
}

// StartedAtStation returns a copy of all station counters.
func (o *Order) StartedAtStation() map[kernel.Station]int {
	return maps.Clone(o.startedAtStation)
}

// IsOverflow reports whether a started counter value exceeds the planned quantity.
func (o *Order) IsOverflow(started int) bool {
	return started > o.plannedQuantity
}

// ValidateAcceptsProduction fails for completed and cancelled orders.
func (o *Order) ValidateAcceptsProduction() error {
	return o.status.ValidateAcceptsProduction()
}

// SetStarted records the counter value observed in the store for station.
func (o *Order) SetStarted(station kernel.Station, count int) error {
	if err := station.Validate(); err != nil {
		return err
	}
	if count < 0 {
		return errs.NewValueIsInvalidErrorWithCause("started is invalid", fmt.Errorf("%d is negative", count))
	}
	o.startedAtStation[station] = count
	return nil
}

// Start marks the order as in progress once a unit has been started.
func (o *Order) Start() error {
	newStatus, err := o.status.Start()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Complete closes the order for further production.
func (o *Order) Complete() error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Cancel closes the order for further production.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

func (o *Order) setID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errs.NewValueIsRequiredError("orderId")
	}
	if IsUnassigned(id) {
		return errs.NewValueIsInvalidErrorWithCause("orderId", fmt.Errorf("%s is reserved", id))
	}
	o.id = id
	return nil
}

func (o *Order) setItem(itemCode, item string) error {
	if strings.TrimSpace(itemCode) == "" {
		return errs.NewValueIsRequiredError("itemCode")
	}
	o.itemCode = strings.TrimSpace(itemCode)
	o.item = strings.TrimSpace(item)
	return nil
}

func (o *Order) setPlannedQuantity(planned int) error {
	if planned <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("plannedQuantity is invalid", fmt.Errorf("%d is not greater than 0", planned))
	}
	o.plannedQuantity = planned
	return nil
}
