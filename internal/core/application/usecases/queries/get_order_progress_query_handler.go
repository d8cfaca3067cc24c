package queries

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"

	"lotflow/internal/core/domain/model/unit"
	"lotflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderProgressQueryHandler assembles OrderProgress from orders,
// order_station_counters and production_units.
type GetOrderProgressQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderProgressQueryHandler(db *gorm.DB) GetOrderProgressQueryHandler {
	return GetOrderProgressQueryHandler{db: db}
}

func (h GetOrderProgressQueryHandler) Handle(ctx context.Context, query GetOrderProgressQuery) (OrderProgress, error) {
	if err := query.Validate(); err != nil {
		return OrderProgress{}, err
	}

	db := h.db.WithContext(ctx)

	var progress OrderProgress
	err := db.Raw(`
		SELECT id, item_code, item, planned_quantity, status
		FROM orders
		WHERE id = ?
	`, query.OrderID()).Row().Scan(
		&progress.OrderID,
		&progress.ItemCode,
		&progress.Item,
		&progress.PlannedQuantity,
		&progress.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderProgress{}, errs.NewObjectNotFoundError("orderId", query.OrderID())
	}
	if err != nil {
		return OrderProgress{}, err
	}

	stations := make(map[string]*StationProgress)
	station := func(name string) *StationProgress {
		if p, ok := stations[name]; ok {
			return p
		}
		p := &StationProgress{Station: name}
		stations[name] = p
		return p
	}

	counterRows, err := db.Raw(`
		SELECT station, started
		FROM order_station_counters
		WHERE order_id = ?
	`, query.OrderID()).Rows()
	if err != nil {
		return OrderProgress{}, err
	}
	defer counterRows.Close()

	for counterRows.Next() {
		var name string
		var started int
		if err = counterRows.Scan(&name, &started); err != nil {
			return OrderProgress{}, err
		}
		station(name).Started = started
	}
	if err = counterRows.Err(); err != nil {
		return OrderProgress{}, err
	}

	unitRows, err := db.Raw(`
		SELECT origin_station, status, COUNT(*)
		FROM production_units
		WHERE order_id = ?
		GROUP BY origin_station, status
	`, query.OrderID()).Rows()
	if err != nil {
		return OrderProgress{}, err
	}
	defer unitRows.Close()

	for unitRows.Next() {
		var name, status string
		var count int
		if err = unitRows.Scan(&name, &status, &count); err != nil {
			return OrderProgress{}, err
		}
		p := station(name)
		switch unit.Status(status) {
		case unit.StatusHeld:
			p.Held += count
		case unit.StatusCompleted:
			p.Completed += count
		case unit.StatusRejected:
			p.Rejected += count
		default:
			p.InWork += count
		}
	}
	if err = unitRows.Err(); err != nil {
		return OrderProgress{}, err
	}

	progress.Stations = make([]StationProgress, 0, len(stations))
	for _, p := range stations {
		progress.Stations = append(progress.Stations, *p)
	}
	slices.SortFunc(progress.Stations, func(a, b StationProgress) int {
		return strings.Compare(a.Station, b.Station)
	})

	return progress, nil
}
