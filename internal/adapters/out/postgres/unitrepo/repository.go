package unitrepo

import (
	"context"
	"errors"
	"time"

	"lotflow/internal/core/domain/model/unit"
	"lotflow/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUnitRepository implements ports.UnitRepository using GORM.
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a repository bound to db, which is usually a transaction.
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// Add inserts the unit row and its creation history.
func (r *GormUnitRepository) Add(ctx context.Context, aggregate *unit.ProductionUnit) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&dto).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewConflictError("unit", aggregate.LotNumber(), err)
	}
	if err != nil {
		return errs.NewPersistenceError("add unit", err)
	}

	return r.appendHistory(ctx, aggregate)
}

// Update overwrites the mutable unit columns and appends pending history.
func (r *GormUnitRepository) Update(ctx context.Context, aggregate *unit.ProductionUnit) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&UnitDTO{LotNumber: dto.LotNumber}).
		Select("*").
		Omit("lot_number", "created_at", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return errs.NewPersistenceError("update unit", result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("lotNumber", aggregate.LotNumber())
	}

	return r.appendHistory(ctx, aggregate)
}

// Get retrieves a unit with its history ordered by position.
func (r *GormUnitRepository) Get(ctx context.Context, lotNumber string) (*unit.ProductionUnit, error) {
	var dto UnitDTO
	err := r.withHistory(ctx).First(&dto, "lot_number = ?", lotNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("lotNumber", lotNumber)
	}
	if err != nil {
		return nil, errs.NewPersistenceError("get unit", err)
	}

	return toDomain(dto)
}

// GetHeldSince returns held units without a reminder inspected before cutoff.
func (r *GormUnitRepository) GetHeldSince(ctx context.Context, cutoff time.Time) ([]*unit.ProductionUnit, error) {
	var dtos []UnitDTO
	err := r.withHistory(ctx).
		Where("status = ? AND reminder_sent = FALSE AND inspection_at < ?", unit.StatusHeld.String(), cutoff).
		Order("inspection_at").
		Order("lot_number").
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewPersistenceError("get held units", err)
	}

	units := make([]*unit.ProductionUnit, 0, len(dtos))
	for _, dto := range dtos {
		u, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		units = append(units, u)
	}

	return units, nil
}

// MarkReminderSent flips reminder_sent only for a held unit that has not been reminded.
func (r *GormUnitRepository) MarkReminderSent(ctx context.Context, lotNumber string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&UnitDTO{}).
		Where("lot_number = ? AND status = ? AND reminder_sent = FALSE", lotNumber, unit.StatusHeld.String()).
		Updates(map[string]any{"reminder_sent": true, "updated_at": at})
	if result.Error != nil {
		return false, errs.NewPersistenceError("mark reminder sent", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *GormUnitRepository) withHistory(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("History", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func (r *GormUnitRepository) appendHistory(ctx context.Context, aggregate *unit.ProductionUnit) error {
	entries := pendingHistory(aggregate)
	if len(entries) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Create(&entries).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewConflictError("unit history", aggregate.LotNumber(), err)
	}
	if err != nil {
		return errs.NewPersistenceError("append unit history", err)
	}

	aggregate.MarkHistoryPersisted()
	return nil
}
