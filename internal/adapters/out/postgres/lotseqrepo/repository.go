// Package lotseqrepo stores the last lot sequence handed out per lot prefix.
package lotseqrepo

import (
	"context"

	"lotflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// SequenceDTO is one lot_sequences row.
type SequenceDTO struct {
	Prefix    string `gorm:"primaryKey"`
	LastValue int    `gorm:"not null"`
}

func (SequenceDTO) TableName() string {
	return "lot_sequences"
}

// GormLotSequenceRepository implements ports.LotSequenceRepository with one upsert
// per call, so concurrent writers on the same prefix serialize on the row lock.
type GormLotSequenceRepository struct {
	db *gorm.DB
}

func NewGormLotSequenceRepository(db *gorm.DB) *GormLotSequenceRepository {
	return &GormLotSequenceRepository{db: db}
}

// Next returns the next sequence for prefix. A prefix seen for the first time starts
// after the units already stored under it, which keeps databases that predate the
// sequence table collision free.
func (r *GormLotSequenceRepository) Next(ctx context.Context, prefix string) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO lot_sequences (prefix, last_value)
		VALUES (?, (SELECT COUNT(*) FROM production_units WHERE lot_number LIKE ?) + 1)
		ON CONFLICT (prefix) DO UPDATE SET last_value = lot_sequences.last_value + 1
		RETURNING last_value
	`, prefix, prefix+"%").Scan(&next).Error
	if err != nil {
		return 0, errs.NewPersistenceError("next lot sequence", err)
	}

	return next, nil
}
