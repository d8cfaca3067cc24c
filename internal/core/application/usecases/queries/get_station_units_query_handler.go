package queries

import (
	"context"

	"lotflow/internal/core/domain/model/unit"

	"gorm.io/gorm"
)

// GetStationUnitsQueryHandler reads a station's work queue, oldest unit first.
type GetStationUnitsQueryHandler struct {
	db *gorm.DB
}

func NewGetStationUnitsQueryHandler(db *gorm.DB) GetStationUnitsQueryHandler {
	return GetStationUnitsQueryHandler{db: db}
}

func (h GetStationUnitsQueryHandler) Handle(ctx context.Context, query GetStationUnitsQuery) ([]UnitSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+unitSummaryColumns+`
		FROM production_units
		WHERE current_station = ? AND status NOT IN (?, ?)
		ORDER BY created_at, lot_number
	`, query.Station().String(), unit.StatusCompleted.String(), unit.StatusRejected.String()).Rows()
	if err != nil {
		return nil, err
	}

	return scanUnitSummaries(rows)
}
