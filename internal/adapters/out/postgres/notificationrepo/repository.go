// Package notificationrepo keeps every emitted notification, independent of whether
// publishing it succeeded.
package notificationrepo

import (
	"context"
	"time"

	"lotflow/internal/core/domain/model/notification"
	"lotflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind         string    `gorm:"index;not null"`
	Subject      string    `gorm:"not null"`
	Body         string    `gorm:"not null"`
	RelatedLot   string    `gorm:"index"`
	RelatedOrder string    `gorm:"index"`
	CreatedAt    time.Time `gorm:"index;autoCreateTime:false"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	dto := NotificationDTO{
		ID:           n.ID().Raw(),
		Kind:         n.Kind().String(),
		Subject:      n.Subject(),
		Body:         n.Body(),
		RelatedLot:   n.RelatedLot(),
		RelatedOrder: n.RelatedOrder(),
		CreatedAt:    n.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return errs.NewPersistenceError("add notification", err)
	}

	return nil
}
