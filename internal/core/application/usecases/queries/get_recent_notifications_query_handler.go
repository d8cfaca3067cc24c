package queries

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type NotificationView struct {
	ID           string
	Kind         string
	Subject      string
	Body         string
	RelatedLot   string
	RelatedOrder string
	CreatedAt    time.Time
}

type GetRecentNotificationsQueryHandler struct {
	db *gorm.DB
}

func NewGetRecentNotificationsQueryHandler(db *gorm.DB) GetRecentNotificationsQueryHandler {
	return GetRecentNotificationsQueryHandler{db: db}
}

func (h GetRecentNotificationsQueryHandler) Handle(
	ctx context.Context,
	query GetRecentNotificationsQuery,
) ([]NotificationView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tx := h.db.WithContext(ctx).
		Table("notifications").
		Select("id, kind, subject, body, related_lot, related_order, created_at")
	if query.Kind() != "" {
		tx = tx.Where("kind = ?", query.Kind().String())
	}

	rows, err := tx.Order("created_at DESC").Order("id").Limit(query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]NotificationView, 0)
	for rows.Next() {
		var v NotificationView
		if err = rows.Scan(&v.ID, &v.Kind, &v.Subject, &v.Body, &v.RelatedLot, &v.RelatedOrder, &v.CreatedAt); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return views, nil
}
