package ports

import (
	"context"

	"lotflow/internal/core/domain/model/notification"
)

// NotificationRepository stores emitted notifications so they survive publishing failures.
type NotificationRepository interface {
	Add(ctx context.Context, n *notification.Notification) error
}
