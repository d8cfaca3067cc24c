package queries

import (
	"errors"

	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/pkg/guard"
)

var ErrGetStationUnitsQueryIsNotConstructed = errors.New(
	"GetStationUnitsQuery must be created via NewGetStationUnitsQuery constructor",
)

// GetStationUnitsQuery lists the units currently waiting or in work at a station.
// Completed and rejected units are excluded.
//
// Example:
//
//	query, err := NewGetStationUnitsQuery("BM01")
//	if err != nil {
//	    return err
//	}
//	units, err := handler.Handle(ctx, query)
type GetStationUnitsQuery struct {
	station kernel.Station

	guard guard.ConstructorGuard
}

func NewGetStationUnitsQuery(station string) (GetStationUnitsQuery, error) {
	s, err := kernel.NewStation(station)
	if err != nil {
		return GetStationUnitsQuery{}, err
	}
	return GetStationUnitsQuery{station: s, guard: guard.NewConstructorGuard()}, nil
}

func (q GetStationUnitsQuery) Validate() error {
	return q.guard.Validate(ErrGetStationUnitsQueryIsNotConstructed)
}

func (q GetStationUnitsQuery) Station() kernel.Station {
	return q.station
}
