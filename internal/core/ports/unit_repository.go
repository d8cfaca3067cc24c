package ports

import (
	"context"
	"time"

	"lotflow/internal/core/domain/model/unit"
)

// UnitRepository defines the persistence contract for production units.
// History entries are append-only: Add and Update insert the unit's pending
// history and never modify stored entries.
type UnitRepository interface {
	// Add persists a new unit. A lot number that already exists is reported as
	// errs.ConflictError.
	Add(ctx context.Context, aggregate *unit.ProductionUnit) error

	// Update persists the mutable unit state and appends pending history.
	Update(ctx context.Context, aggregate *unit.ProductionUnit) error

	// Get retrieves a unit with its full history.
	// Returns errs.ObjectNotFoundError when the lot does not exist.
	Get(ctx context.Context, lotNumber string) (*unit.ProductionUnit, error)

	// GetHeldSince returns held units without a sent reminder whose inspection
	// happened before cutoff, oldest first.
	GetHeldSince(ctx context.Context, cutoff time.Time) ([]*unit.ProductionUnit, error)

	// MarkReminderSent sets reminder_sent on a held unit only when it is still false.
	// It reports whether this call changed the flag, so concurrent scanners notify once.
	MarkReminderSent(ctx context.Context, lotNumber string, at time.Time) (bool, error)
}

// LotSequenceRepository hands out lot number sequences per prefix.
type LotSequenceRepository interface {
	// Next atomically advances and returns the sequence for prefix. The first call for
	// a prefix continues after the units already stored with that prefix.
	Next(ctx context.Context, prefix string) (int, error)
}
