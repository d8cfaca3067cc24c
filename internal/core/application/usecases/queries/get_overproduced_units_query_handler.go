package queries

import (
	"context"

	"lotflow/internal/core/domain/model/unit"

	"gorm.io/gorm"
)

// GetOverproducedUnitsQueryHandler reads overproduced units that can still be reassigned.
// Rejected units are left out.
type GetOverproducedUnitsQueryHandler struct {
	db *gorm.DB
}

func NewGetOverproducedUnitsQueryHandler(db *gorm.DB) GetOverproducedUnitsQueryHandler {
	return GetOverproducedUnitsQueryHandler{db: db}
}

func (h GetOverproducedUnitsQueryHandler) Handle(
	ctx context.Context,
	query GetOverproducedUnitsQuery,
) ([]UnitSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+unitSummaryColumns+`
		FROM production_units
		WHERE is_overproduction = TRUE AND status <> ?
		ORDER BY created_at, lot_number
	`, unit.StatusRejected.String()).Rows()
	if err != nil {
		return nil, err
	}

	return scanUnitSummaries(rows)
}
