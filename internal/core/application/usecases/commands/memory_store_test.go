package commands_test

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"lotflow/internal/core/application/usecases/commands"
	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/notification"
	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/core/domain/model/unit"
	"lotflow/internal/core/ports"
	"lotflow/internal/pkg/errs"
)

// memoryStore is an in-process stand-in for PostgreSQL used by scenario tests.
// Writes are applied immediately; Commit and Rollback only mark the unit of work done.
type memoryStore struct {
	mu            sync.Mutex
	orders        map[string]*order.Order
	counters      map[string]map[kernel.Station]int
	units         map[string]*unit.ProductionUnit
	sequences     map[string]int
	notifications []*notification.Notification
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		orders:    make(map[string]*order.Order),
		counters:  make(map[string]map[kernel.Station]int),
		units:     make(map[string]*unit.ProductionUnit),
		sequences: make(map[string]int),
	}
}

func (s *memoryStore) Create() commands.UoW { return memoryUoW{s} }

func (s *memoryStore) counter(orderID string, station kernel.Station) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[orderID][station]
}

func (s *memoryStore) notificationsOf(kind notification.Kind) []*notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*notification.Notification
	for _, n := range s.notifications {
		if n.Kind() == kind {
			out = append(out, n)
		}
	}
	return out
}

type memoryUoW struct{ s *memoryStore }

func (memoryUoW) Begin(context.Context) error    { return nil }
func (memoryUoW) Commit(context.Context) error   { return nil }
func (memoryUoW) Rollback(context.Context) error { return nil }

func (u memoryUoW) UnitRepository() ports.UnitRepository               { return memoryUnits(u) }
func (u memoryUoW) OrderRepository() ports.OrderRepository             { return memoryOrders(u) }
func (u memoryUoW) LotSequenceRepository() ports.LotSequenceRepository { return memorySequences(u) }
func (u memoryUoW) NotificationRepository() ports.NotificationRepository {
	return memoryNotifications(u)
}

type memoryOrders struct{ s *memoryStore }

func (r memoryOrders) Add(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[o.ID()]; ok {
		return errs.NewConflictError("order", o.ID(), nil)
	}
	r.s.orders[o.ID()] = o
	return nil
}

func (r memoryOrders) Update(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders[o.ID()] = o
	return nil
}

func (r memoryOrders) Get(_ context.Context, id string) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", id)
	}
	return order.RestoreOrder(o.ID(), o.ItemCode(), o.Item(), o.PlannedQuantity(), o.Status(),
		maps.Clone(r.s.counters[id]))
}

func (r memoryOrders) IncrementStarted(_ context.Context, orderID string, station kernel.Station) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.counters[orderID] == nil {
		r.s.counters[orderID] = make(map[kernel.Station]int)
	}
	r.s.counters[orderID][station]++
	return r.s.counters[orderID][station], nil
}

func (r memoryOrders) DecrementStarted(_ context.Context, orderID string, station kernel.Station) (int, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current := r.s.counters[orderID][station]
	if current == 0 {
		return 0, false, nil
	}
	r.s.counters[orderID][station] = current - 1
	return current - 1, true, nil
}

type memoryUnits struct{ s *memoryStore }

func (r memoryUnits) Add(_ context.Context, u *unit.ProductionUnit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.units[u.LotNumber()]; ok {
		return errs.NewConflictError("lot", u.LotNumber(), nil)
	}
	u.MarkHistoryPersisted()
	r.s.units[u.LotNumber()] = u
	return nil
}

func (r memoryUnits) Update(_ context.Context, u *unit.ProductionUnit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.MarkHistoryPersisted()
	r.s.units[u.LotNumber()] = u
	return nil
}

func (r memoryUnits) Get(_ context.Context, lotNumber string) (*unit.ProductionUnit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.units[lotNumber]
	if !ok {
		return nil, errs.NewObjectNotFoundError("lotNumber", lotNumber)
	}
	return u, nil
}

func (r memoryUnits) GetHeldSince(_ context.Context, cutoff time.Time) ([]*unit.ProductionUnit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var held []*unit.ProductionUnit
	for _, u := range r.s.units {
		if u.Stage() == unit.StageHeld && !u.ReminderSent() && u.Inspection().Timestamp().Before(cutoff) {
			held = append(held, u)
		}
	}
	slices.SortFunc(held, func(a, b *unit.ProductionUnit) int {
		return a.Inspection().Timestamp().Compare(b.Inspection().Timestamp())
	})
	return held, nil
}

func (r memoryUnits) MarkReminderSent(_ context.Context, lotNumber string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.units[lotNumber]
	if !ok || u.ReminderSent() || u.Stage() != unit.StageHeld {
		return false, nil
	}
	u.MarkReminderSent(at)
	return true, nil
}

type memorySequences struct{ s *memoryStore }

func (r memorySequences) Next(_ context.Context, prefix string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sequences[prefix]; !ok {
		for lot := range r.s.units {
			if strings.HasPrefix(lot, prefix) {
				r.s.sequences[prefix]++
			}
		}
	}
	r.s.sequences[prefix]++
	return r.s.sequences[prefix], nil
}

type memoryNotifications struct{ s *memoryStore }

func (r memoryNotifications) Add(_ context.Context, n *notification.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifications = append(r.s.notifications, n)
	return nil
}
