package queries

import (
	"database/sql"
	"time"
)

// UnitSummary is the list view of a production unit.
type UnitSummary struct {
	LotNumber        string
	OrderID          string
	ItemCode         string
	Item             string
	OriginStation    string
	CurrentStation   string
	LastStation      string
	Stage            string
	Status           string
	IsOverproduction bool
	InspectionResult string
	InspectedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

const unitSummaryColumns = `
	lot_number,
	order_id,
	item_code,
	item,
	origin_station,
	current_station,
	last_station,
	stage,
	status,
	is_overproduction,
	COALESCE(inspection_result, ''),
	inspection_at,
	created_at,
	updated_at`

func scanUnitSummaries(rows *sql.Rows) ([]UnitSummary, error) {
	defer rows.Close()

	summaries := make([]UnitSummary, 0)
	for rows.Next() {
		var s UnitSummary
		var inspectedAt sql.NullTime

		if err := rows.Scan(
			&s.LotNumber,
			&s.OrderID,
			&s.ItemCode,
			&s.Item,
			&s.OriginStation,
			&s.CurrentStation,
			&s.LastStation,
			&s.Stage,
			&s.Status,
			&s.IsOverproduction,
			&s.InspectionResult,
			&inspectedAt,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if inspectedAt.Valid {
			at := inspectedAt.Time
			s.InspectedAt = &at
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}
