package orderrepo

import (
	"context"
	"errors"

	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order. Counters start empty and are created on first increment.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&dto).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewConflictError("order", aggregate.ID(), err)
	}
	if err != nil {
		return errs.NewPersistenceError("add order", err)
	}

	return nil
}

// Update saves the order status.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{ID: aggregate.ID()}).
		Update("status", aggregate.Status().String())
	if result.Error != nil {
		return errs.NewPersistenceError("update order", result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orderId", aggregate.ID())
	}

	return nil
}

// Get retrieves an order by ID with all of its counters.
func (r *GormOrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("Counters").First(&dto, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("orderId", id)
	}
	if err != nil {
		return nil, errs.NewPersistenceError("get order", err)
	}

	return toDomain(dto)
}

// IncrementStarted upserts the counter and returns the value written by this statement.
func (r *GormOrderRepository) IncrementStarted(ctx context.Context, orderID string, station kernel.Station) (int, error) {
	counter := CounterDTO{OrderID: orderID, Station: station.String(), Started: 1}
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "order_id"}, {Name: "station"}},
				DoUpdates: clause.Assignments(map[string]any{"started": gorm.Expr("order_station_counters.started + 1")}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "started"}}},
		).
		Create(&counter).Error
	if err != nil {
		return 0, errs.NewPersistenceError("increment started counter", err)
	}

	return counter.Started, nil
}

// DecrementStarted subtracts one only while the counter is positive. A missing or zero
// counter is left untouched and reported with decremented=false.
func (r *GormOrderRepository) DecrementStarted(
	ctx context.Context,
	orderID string,
	station kernel.Station,
) (int, bool, error) {
	var counter CounterDTO
	result := r.db.WithContext(ctx).
		Model(&counter).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "started"}}}).
		Where("order_id = ? AND station = ? AND started > 0", orderID, station.String()).
		Update("started", gorm.Expr("started - 1"))
	if result.Error != nil {
		return 0, false, errs.NewPersistenceError("decrement started counter", result.Error)
	}

	if result.RowsAffected == 1 {
		return counter.Started, true, nil
	}

	var current int
	err := r.db.WithContext(ctx).
		Model(&CounterDTO{}).
		Select("COALESCE(MAX(started), 0)").
		Where("order_id = ? AND station = ?", orderID, station.String()).
		Scan(&current).Error
	if err != nil {
		return 0, false, errs.NewPersistenceError("read started counter", err)
	}

	return current, false, nil
}
