package unit

import (
	"slices"
	"time"

	"lotflow/internal/core/domain/model/kernel"
)

// Action names the transition recorded by a history entry.
type Action string

const (
	ActionCreated          Action = "created"
	ActionApproved         Action = "approved"
	ActionRoutingUndefined Action = "routing_undefined"
	ActionTempRejected     Action = "temp_rejected"
	ActionRejected         Action = "rejected"
	ActionReassigned       Action = "reassigned"
)

// HistoryEntry is one immutable line of a unit's audit trail.
type HistoryEntry struct {
	id        kernel.UUID
	action    Action
	station   kernel.Station
	actor     string
	timestamp time.Time
	notes     string
}

func newHistoryEntry(action Action, station kernel.Station, actor string, at time.Time, notes string) HistoryEntry {
	return HistoryEntry{
		id:        kernel.NewUUID(),
		action:    action,
		station:   station,
		actor:     actor,
		timestamp: at,
		notes:     notes,
	}
}

// RestoreHistoryEntry rebuilds an entry read from storage.
func RestoreHistoryEntry(
	id kernel.UUID,
	action Action,
	station kernel.Station,
	actor string,
	at time.Time,
	notes string,
) HistoryEntry {
	return HistoryEntry{id: id, action: action, station: station, actor: actor, timestamp: at, notes: notes}
}

func (h HistoryEntry) ID() kernel.UUID { return h.id }
func (h HistoryEntry) Action() Action { return h.action }
func (h HistoryEntry) Station() kernel.Station { return h.station }
func (h HistoryEntry) Actor() string { return h.actor }
func (h HistoryEntry) Timestamp() time.Time { return h.timestamp }
func (h HistoryEntry) Notes() string { return h.notes }

// Inspection is the outcome of the last non-approving quality check.
type Inspection struct {
	result    Decision
	reasons   []string
	timestamp time.Time
}

func NewInspection(result Decision, reasons []string, at time.Time) Inspection {
	return Inspection{result: result, reasons: slices.Clone(reasons), timestamp: at}
}

func (i Inspection) Result() Decision { return i.result }
func (i Inspection) Reasons() []string { return slices.Clone(i.reasons) }
func (i Inspection) Timestamp() time.Time { return i.timestamp }
