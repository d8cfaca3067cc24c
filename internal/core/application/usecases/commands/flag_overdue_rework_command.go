package commands

import (
	"errors"
	"time"

	"lotflow/internal/pkg/errs"
	"lotflow/internal/pkg/guard"
)

var ErrFlagOverdueReworkCommandIsNotConstructed = errors.New(
	"FlagOverdueReworkCommand must be created via NewFlagOverdueReworkCommand constructor",
)

// DefaultOverdueThreshold is how long a unit may stay held before a reminder.
const DefaultOverdueThreshold = 7 * 24 * time.Hour

// FlagOverdueReworkCommand triggers one scan for units held longer than the threshold.
type FlagOverdueReworkCommand struct {
	threshold time.Duration

	guard guard.ConstructorGuard
}

func NewFlagOverdueReworkCommand(threshold time.Duration) (FlagOverdueReworkCommand, error) {
	if threshold <= 0 {
		return FlagOverdueReworkCommand{}, errs.NewValueIsOutOfRangeError("threshold", threshold, "1ns", "unbounded")
	}
	return FlagOverdueReworkCommand{threshold: threshold, guard: guard.NewConstructorGuard()}, nil
}

func (c FlagOverdueReworkCommand) Validate() error {
	return c.guard.Validate(ErrFlagOverdueReworkCommandIsNotConstructed)
}

func (c FlagOverdueReworkCommand) Threshold() time.Duration {
	return c.threshold
}
