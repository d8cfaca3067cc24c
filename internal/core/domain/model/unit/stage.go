package unit

import (
	"fmt"
	"slices"

	"lotflow/internal/pkg/errs"
)

// Stage is the processing phase of a unit. The vocabulary is closed: every status or
// stage string read from storage or the API is mapped onto one of these values.
type Stage string

const (
	StageActive          Stage = "Active"
	StageHeld            Stage = "Held"
	StageMazak           Stage = "Mazak"
	StageNabewerking     Stage = "Nabewerking"
	StageFinalInspection Stage = "Eindinspectie"
	StageFinished        Stage = "Finished"
	StageRejected        Stage = "Rejected"
)

var allStages = []Stage{
	StageActive,
	StageHeld,
	StageMazak,
	StageNabewerking,
	StageFinalInspection,
	StageFinished,
	StageRejected,
}

// ParseStage maps a stored stage name onto the canonical enum.
func ParseStage(s string) (Stage, error) {
	stage := Stage(s)
	if err := stage.Validate(); err != nil {
		return "", err
	}
	return stage, nil
}

func (s Stage) Validate() error {
	if !slices.Contains(allStages, s) {
		return errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%q is not a known stage", string(s)))
	}
	return nil
}

func (s Stage) String() string {
	return string(s)
}

// Status is the coarse state of a unit.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusActive    Status = "active"
	StatusHeld      Status = "held"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

var allStatuses = []Status{StatusQueued, StatusActive, StatusHeld, StatusRejected, StatusCompleted}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !slices.Contains(allStatuses, status) {
		return "", errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", s))
	}
	return status, nil
}

// IsTerminal reports whether the unit accepts no further decisions.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

func (s Status) String() string {
	return string(s)
}

// Decision is the outcome of a quality check.
type Decision string

const (
	DecisionApproved     Decision = "Approved"
	DecisionTempRejected Decision = "TempRejected"
	DecisionRejected     Decision = "Rejected"
)

func ParseDecision(s string) (Decision, error) {
	d := Decision(s)
	switch d {
	case DecisionApproved, DecisionTempRejected, DecisionRejected:
		return d, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("decision", fmt.Errorf("%q is not a known decision", s))
	}
}

// RequiresReasons reports whether the decision must carry at least one reason.
func (d Decision) RequiresReasons() bool {
	return d == DecisionTempRejected || d == DecisionRejected
}

func (d Decision) String() string {
	return string(d)
}
