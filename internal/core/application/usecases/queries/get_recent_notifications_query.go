package queries

import (
	"errors"

	"lotflow/internal/core/domain/model/notification"
	"lotflow/internal/pkg/errs"
	"lotflow/internal/pkg/guard"
)

const (
	DefaultNotificationsLimit = 50
	MaxNotificationsLimit     = 500
)

var ErrGetRecentNotificationsQueryIsNotConstructed = errors.New(
	"GetRecentNotificationsQuery must be created via NewGetRecentNotificationsQuery constructor",
)

// GetRecentNotificationsQuery reads the newest notifications, optionally of one kind.
// A zero limit falls back to DefaultNotificationsLimit.
type GetRecentNotificationsQuery struct {
	kind  notification.Kind
	limit int

	guard guard.ConstructorGuard
}

func NewGetRecentNotificationsQuery(kind string, limit int) (GetRecentNotificationsQuery, error) {
	if limit == 0 {
		limit = DefaultNotificationsLimit
	}
	if limit < 1 || limit > MaxNotificationsLimit {
		return GetRecentNotificationsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxNotificationsLimit)
	}

	var k notification.Kind
	if kind != "" {
		parsed, err := notification.ParseKind(kind)
		if err != nil {
			return GetRecentNotificationsQuery{}, err
		}
		k = parsed
	}

	return GetRecentNotificationsQuery{kind: k, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetRecentNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrGetRecentNotificationsQueryIsNotConstructed)
}

func (q GetRecentNotificationsQuery) Kind() notification.Kind {
	return q.kind
}

func (q GetRecentNotificationsQuery) Limit() int {
	return q.limit
}
