package queries

import (
	"errors"
	"strings"

	"lotflow/internal/pkg/errs"
	"lotflow/internal/pkg/guard"
)

var ErrGetOrderProgressQueryIsNotConstructed = errors.New(
	"GetOrderProgressQuery must be created via NewGetOrderProgressQuery constructor",
)

// GetOrderProgressQuery reads an order with its started counters and the state of
// the units it owns, per origin station.
type GetOrderProgressQuery struct {
	orderID string

	guard guard.ConstructorGuard
}

func NewGetOrderProgressQuery(orderID string) (GetOrderProgressQuery, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return GetOrderProgressQuery{}, errs.NewValueIsRequiredError("orderId")
	}
	return GetOrderProgressQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderProgressQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderProgressQueryIsNotConstructed)
}

func (q GetOrderProgressQuery) OrderID() string {
	return q.orderID
}

// OrderProgress summarizes one order.
type OrderProgress struct {
	OrderID         string
	ItemCode        string
	Item            string
	PlannedQuantity int
	Status          string
	Stations        []StationProgress
}

// StationProgress compares the started counter of a station with the units that
// originate there. Started and InWork+Held+Completed drift apart only when a counter
// update was lost.
type StationProgress struct {
	Station   string
	Started   int
	InWork    int
	Held      int
	Completed int
	Rejected  int
}
