package queries

import (
	"errors"

	"lotflow/internal/pkg/guard"
)

var ErrGetOverproducedUnitsQueryIsNotConstructed = errors.New(
	"GetOverproducedUnitsQuery must be created via NewGetOverproducedUnitsQuery constructor",
)

// GetOverproducedUnitsQuery lists units waiting for reassignment to a real order.
type GetOverproducedUnitsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetOverproducedUnitsQuery() GetOverproducedUnitsQuery {
	return GetOverproducedUnitsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetOverproducedUnitsQuery) Validate() error {
	return q.guard.Validate(ErrGetOverproducedUnitsQueryIsNotConstructed)
}
