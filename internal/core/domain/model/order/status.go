package order

import (
	"errors"
	"fmt"

	"lotflow/internal/pkg/errs"
)

// ErrOrderIsClosed is returned for changes that only open orders accept.
var ErrOrderIsClosed = errors.New("order is closed")

// Status represents the lifecycle state of a production order.
//
// State transitions:
//
//	Pending ──> InProgress ──> Completed
//	   │            │
//	   └────────────┴────────> Cancelled
//
// Pending may also go straight to Completed. Completed and Cancelled are final.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending orders are imported from planning and have no started units yet.
	Pending

	// InProgress orders have at least one unit started at some station.
	InProgress

	// Completed orders no longer accept production.
	Completed

	// Cancelled orders no longer accept production.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		InProgress: "in_progress",
		Completed:  "completed",
		Cancelled:  "cancelled",
	}
}

// ParseStatus converts the persisted/API representation back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the known states.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical lower-case name used in storage and on the API.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsFinal reports whether no further transitions are possible.
func (s Status) IsFinal() bool {
	return s == Completed || s == Cancelled
}

// ValidateAcceptsProduction checks that units may still be started or assigned.
func (s Status) ValidateAcceptsProduction() error {
	if s != Pending && s != InProgress {
		return fmt.Errorf("%w: %s order does not accept production", ErrOrderIsClosed, s.String())
	}
	return nil
}

// Start transitions Pending to InProgress. InProgress stays InProgress.
func (s Status) Start() (Status, error) {
	if err := s.ValidateAcceptsProduction(); err != nil {
		return 0, err
	}
	return InProgress, nil
}

// Complete transitions an open order to Completed.
func (s Status) Complete() (Status, error) {
	if s != Pending && s != InProgress {
		return 0, fmt.Errorf("%w: %s is not a valid status to complete", ErrOrderIsClosed, s.String())
	}
	return Completed, nil
}

// Cancel transitions an open order to Cancelled.
func (s Status) Cancel() (Status, error) {
	if s != Pending && s != InProgress {
		return 0, fmt.Errorf("%w: %s is not a valid status to cancel", ErrOrderIsClosed, s.String())
	}
	return Cancelled, nil
}
