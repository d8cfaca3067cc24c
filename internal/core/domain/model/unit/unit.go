package unit

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/pkg/errs"
)

var (
	// ErrUnitIsNotConstructed is returned when a ProductionUnit was not created through
	// NewProductionUnit or RestoreProductionUnit.
	ErrUnitIsNotConstructed = errors.New("ProductionUnit must be created via NewProductionUnit constructor")

	// ErrUnitIsTerminal is returned for decisions on completed or rejected units.
	ErrUnitIsTerminal = errors.New("unit is in a terminal state")

	// ErrRoutingUndefined is returned by Approve when no route leaves the current station.
	// The unit is pinned in place and the attempt is recorded in its history.
	ErrRoutingUndefined = errors.New("no route defined for current station")

	// ErrUnitIsNotOverproduced is returned when reassigning a unit that already has an order.
	ErrUnitIsNotOverproduced = errors.New("unit is not overproduced")
)

// Destination is the next station and stage chosen by routing.
type Destination struct {
	Station kernel.Station
	Stage   Stage
}

// Router resolves where a unit goes after an approved quality check.
type Router interface {
	Resolve(current kernel.Station, item string) (Destination, bool)
}

// ProductionUnit is one physical lot moving through the stations.
//
// ProductionUnit follows these invariants:
//   - lotNumber, orderId, itemCode and originStation are set at creation
//   - originStation never changes; lastStation is written whenever currentStation changes
//   - history only grows: transitions append exactly one entry
//   - completed and rejected units accept no further decisions
type ProductionUnit struct {
	lotNumber        string
	orderID          string
	itemCode         string
	item             string
	originStation    kernel.Station
	currentStation   kernel.Station
	lastStation      kernel.Station
	stage            Stage
	status           Status
	inspection       *Inspection
	isOverproduction bool
	overproducedFrom string
	note             string
	history          []HistoryEntry
	persistedHistory int
	reminderSent     bool
	createdAt        time.Time
	updatedAt        time.Time
	isConstructed    bool
}

// NewUnitParams carries the inputs of StartProduction for one unit.
type NewUnitParams struct {
	LotNumber      string
	OrderID        string
	ItemCode       string
	Item           string
	Station        kernel.Station
	Overproduction bool
	Actor          string
	Note           string
	Now            time.Time
}

// NewProductionUnit creates an active unit at its origin station. Overproduced units
// are detached from their order and carry order.UnassignedOrderID; the order whose
// counter recorded the start is kept as OverproducedFrom.
func NewProductionUnit(p NewUnitParams) (*ProductionUnit, error) {
	u := &ProductionUnit{
		stage:            StageActive,
		status:           StatusActive,
		isOverproduction: p.Overproduction,
		note:             strings.TrimSpace(p.Note),
		createdAt:        p.Now,
		updatedAt:        p.Now,
		isConstructed:    true,
	}

	orderID := p.OrderID
	if p.Overproduction {
		u.overproducedFrom = strings.TrimSpace(p.OrderID)
		orderID = order.UnassignedOrderID
	}

	if err := errors.Join(
		u.setLotNumber(p.LotNumber),
		u.setOrderID(orderID),
		u.setItem(p.ItemCode, p.Item),
		u.setOrigin(p.Station),
		validateActor(p.Actor),
	); err != nil {
		return nil, err
	}

	u.appendHistory(ActionCreated, u.originStation, p.Actor, p.Now, u.note)
	return u, nil
}

// Snapshot is the persisted state of a unit, used to rebuild the aggregate.
type Snapshot struct {
	LotNumber        string
	OrderID          string
	ItemCode         string
	Item             string
	OriginStation    kernel.Station
	CurrentStation   kernel.Station
	LastStation      kernel.Station
	Stage            Stage
	Status           Status
	Inspection       *Inspection
	IsOverproduction bool
	OverproducedFrom string
	Note             string
	History          []HistoryEntry
	ReminderSent     bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RestoreProductionUnit rebuilds a unit from storage. The restored history is treated
// as already persisted.
func RestoreProductionUnit(s Snapshot) (*ProductionUnit, error) {
	u := &ProductionUnit{isConstructed: true}

	if err := errors.Join(
		u.setLotNumber(s.LotNumber),
		u.setOrderID(s.OrderID),
		u.setItem(s.ItemCode, s.Item),
		u.setOrigin(s.OriginStation),
		s.CurrentStation.Validate(),
		s.Stage.Validate(),
	); err != nil {
		return nil, err
	}
	if _, err := ParseStatus(string(s.Status)); err != nil {
		return nil, err
	}

	u.currentStation = s.CurrentStation
	u.lastStation = s.LastStation
	u.stage = s.Stage
	u.status = s.Status
	if s.Inspection != nil {
		inspection := *s.Inspection
		u.inspection = &inspection
	}
	u.isOverproduction = s.IsOverproduction
	u.overproducedFrom = s.OverproducedFrom
	u.note = s.Note
	u.history = slices.Clone(s.History)
	u.persistedHistory = len(u.history)
	u.reminderSent = s.ReminderSent
	u.createdAt = s.CreatedAt
	u.updatedAt = s.UpdatedAt
	return u, nil
}

// Validate ensures the unit was built by a constructor.
func (u *ProductionUnit) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUnitIsNotConstructed
	}
	return nil
}

func (u *ProductionUnit) LotNumber() string { return u.lotNumber }
func (u *ProductionUnit) OrderID() string { return u.orderID }
func (u *ProductionUnit) ItemCode() string { return u.itemCode }
func (u *ProductionUnit) Item() string { return u.item }
func (u *ProductionUnit) OriginStation() kernel.Station { return u.originStation }
func (u *ProductionUnit) CurrentStation() kernel.Station { return u.currentStation }
func (u *ProductionUnit) LastStation() kernel.Station { return u.lastStation }
func (u *ProductionUnit) Stage() Stage { return u.stage }
func (u *ProductionUnit) Status() Status { return u.status }
func (u *ProductionUnit) IsOverproduction() bool { return u.isOverproduction }
func (u *ProductionUnit) Note() string { return u.note }

// OverproducedFrom is the order whose counter recorded the unit's start while it is
// overproduced. Empty once the unit is reassigned, and for rows stored before the
// column existed.
func (u *ProductionUnit) OverproducedFrom() string { return u.overproducedFrom }

func (u *ProductionUnit) ReminderSent() bool { return u.reminderSent }
func (u *ProductionUnit) CreatedAt() time.Time { return u.createdAt }
func (u *ProductionUnit) UpdatedAt() time.Time { return u.updatedAt }

// Inspection returns the last inspection, or nil when there is none.
func (u *ProductionUnit) Inspection() *Inspection {
	if u.inspection == nil {
		return nil
	}
	inspection := *u.inspection
	return &inspection
}

// History returns a copy of the full audit trail, oldest first.
func (u *ProductionUnit) History() []HistoryEntry {
	return slices.Clone(u.history)
}

// PendingHistory returns the entries appended since the unit was loaded or last persisted.
func (u *ProductionUnit) PendingHistory() []HistoryEntry {
	return slices.Clone(u.history[u.persistedHistory:])
}

// MarkHistoryPersisted is called by repositories after pending entries were stored.
func (u *ProductionUnit) MarkHistoryPersisted() {
	u.persistedHistory = len(u.history)
}

// HasRealOrder reports whether the unit counts toward an order's started counters.
func (u *ProductionUnit) HasRealOrder() bool {
	return !order.IsUnassigned(u.orderID)
}

// Decide applies a quality decision. Approved decisions consult router.
func (u *ProductionUnit) Decide(
	decision Decision,
	router Router,
	reasons []string,
	actor, notes string,
	now time.Time,
) error {
	switch decision {
	case DecisionApproved:
		return u.Approve(router, actor, notes, now)
	case DecisionTempRejected:
		return u.TempReject(reasons, actor, notes, now)
	case DecisionRejected:
		return u.Reject(reasons, actor, notes, now)
	default:
		return errs.NewValueIsInvalidErrorWithCause("decision", fmt.Errorf("%q is not a known decision", decision))
	}
}

// Approve moves the unit to the destination chosen by router. A held unit is released
// the same way. When no route matches, the unit keeps its station and stage, a
// routing_undefined entry is appended and ErrRoutingUndefined is returned.
func (u *ProductionUnit) Approve(router Router, actor, notes string, now time.Time) error {
	if err := u.validateDecision(actor); err != nil {
		return err
	}

	dest, ok := router.Resolve(u.currentStation, u.item)
	if !ok {
		u.appendHistory(ActionRoutingUndefined, u.currentStation, actor, now, notes)
		u.updatedAt = now
		return ErrRoutingUndefined
	}

	from := u.currentStation
	u.moveTo(dest.Station)
	u.stage = dest.Stage
	u.inspection = nil
	if dest.Stage == StageFinished {
		u.status = StatusCompleted
	} else {
		u.status = StatusActive
	}

	u.appendHistory(ActionApproved, from, actor, now, notes)
	u.updatedAt = now
	return nil
}

// TempReject holds the unit for rework at its current station.
func (u *ProductionUnit) TempReject(reasons []string, actor, notes string, now time.Time) error {
	if err := errors.Join(u.validateDecision(actor), validateReasons(reasons)); err != nil {
		return err
	}

	inspection := NewInspection(DecisionTempRejected, reasons, now)
	u.inspection = &inspection
	u.stage = StageHeld
	u.status = StatusHeld
	u.reminderSent = false

	u.appendHistory(ActionTempRejected, u.currentStation, actor, now, notes)
	u.updatedAt = now
	return nil
}

// Reject scraps the unit and moves it to the reject holding area.
func (u *ProductionUnit) Reject(reasons []string, actor, notes string, now time.Time) error {
	if err := errors.Join(u.validateDecision(actor), validateReasons(reasons)); err != nil {
		return err
	}

	from := u.currentStation
	inspection := NewInspection(DecisionRejected, reasons, now)
	u.inspection = &inspection
	u.stage = StageRejected
	u.status = StatusRejected
	u.moveTo(kernel.StationRejected)

	u.appendHistory(ActionRejected, from, actor, now, notes)
	u.updatedAt = now
	return nil
}

// Reassign attaches an overproduced unit to a real order. Moving the started count
// from OverproducedFrom to the new order is up to the caller.
func (u *ProductionUnit) Reassign(orderID, actor string, now time.Time) error {
	if err := validateActor(actor); err != nil {
		return err
	}
	if !u.isOverproduction {
		return ErrUnitIsNotOverproduced
	}
	if u.status == StatusRejected {
		return ErrUnitIsTerminal
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" || order.IsUnassigned(orderID) {
		return errs.NewValueIsRequiredError("orderId")
	}

	u.orderID = orderID
	u.isOverproduction = false
	u.overproducedFrom = ""

	u.appendHistory(ActionReassigned, u.currentStation, actor, now, "assigned to order "+orderID)
	u.updatedAt = now
	return nil
}

// IsOverdue reports whether the unit has been held longer than threshold without a reminder.
func (u *ProductionUnit) IsOverdue(now time.Time, threshold time.Duration) bool {
	if u.stage != StageHeld || u.inspection == nil || u.reminderSent {
		return false
	}
	return now.Sub(u.inspection.timestamp) > threshold
}

// MarkReminderSent records that the overdue rework notification was emitted.
func (u *ProductionUnit) MarkReminderSent(now time.Time) {
	u.reminderSent = true
	u.updatedAt = now
}

func (u *ProductionUnit) moveTo(station kernel.Station) {
	u.lastStation = u.currentStation
	u.currentStation = station
}

func (u *ProductionUnit) appendHistory(action Action, station kernel.Station, actor string, at time.Time, notes string) {
	u.history = append(u.history, newHistoryEntry(action, station, actor, at, strings.TrimSpace(notes)))
}

func (u *ProductionUnit) validateDecision(actor string) error {
	if u.status.IsTerminal() {
		return fmt.Errorf("%w: %s is %s", ErrUnitIsTerminal, u.lotNumber, u.status)
	}
	return validateActor(actor)
}

func (u *ProductionUnit) setLotNumber(lot string) error {
	lot = strings.TrimSpace(lot)
	if lot == "" {
		return errs.NewValueIsRequiredError("lotNumber")
	}
	u.lotNumber = lot
	return nil
}

func (u *ProductionUnit) setOrderID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errs.NewValueIsRequiredError("orderId")
	}
	u.orderID = id
	return nil
}

func (u *ProductionUnit) setItem(itemCode, item string) error {
	if strings.TrimSpace(itemCode) == "" {
		return errs.NewValueIsRequiredError("itemCode")
	}
	u.itemCode = strings.TrimSpace(itemCode)
	u.item = strings.TrimSpace(item)
	return nil
}

func (u *ProductionUnit) setOrigin(station kernel.Station) error {
	if err := station.Validate(); err != nil {
		return err
	}
	u.originStation = station
	u.currentStation = station
	u.lastStation = station
	return nil
}

func validateActor(actor string) error {
	if strings.TrimSpace(actor) == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	return nil
}

func validateReasons(reasons []string) error {
	for _, r := range reasons {
		if strings.TrimSpace(r) != "" {
			return nil
		}
	}
	return errs.NewValueIsRequiredError("reasons")
}
