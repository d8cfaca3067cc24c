package commands_test

import (
	"testing"
	"time"

	"lotflow/internal/core/application/usecases/commands"
	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/notification"
	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/core/domain/model/unit"
	"lotflow/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scenario struct {
	store    *memoryStore
	clock    *fixedClock
	start    commands.StartProductionCommandHandler
	decide   commands.SubmitQualityDecisionCommandHandler
	reassign commands.ReassignOverproducedUnitCommandHandler
	flag     commands.FlagOverdueReworkCommandHandler
	orders   commands.CreateOrderCommandHandler
}

func newScenario(t *testing.T) *scenario {
	t.Helper()
	store := newMemoryStore()
	clock := &fixedClock{now: testNow}
	reconciler := commands.NewOrderReconciler(testLogger, nil)
	router := services.NewRoutingResolver(services.DefaultTopology())

	return &scenario{
		store:    store,
		clock:    clock,
		start:    commands.NewStartProductionCommandHandler(store, reconciler, nil, clock, testLogger, nil),
		decide:   commands.NewSubmitQualityDecisionCommandHandler(store, router, reconciler, nil, clock, testLogger, nil),
		reassign: commands.NewReassignOverproducedUnitCommandHandler(store, reconciler, nil, clock, testLogger),
		flag:     commands.NewFlagOverdueReworkCommandHandler(store, nil, clock, testLogger, nil),
		orders:   commands.NewCreateOrderCommandHandler(orderOnly{store}, nil, testLogger),
	}
}

type orderOnly struct{ s *memoryStore }

func (o orderOnly) Create() commands.OrderUoW { return memoryUoW(o) }

func (f *scenario) createOrder(t *testing.T, id string, planned int) {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(id, "FL-100", "FL-Flange-100", planned)
	require.NoError(t, err)
	require.NoError(t, f.orders.Handle(t.Context(), cmd))
}

func (f *scenario) startOne(t *testing.T, orderID, station string) commands.StartProductionResult {
	t.Helper()
	return f.startMany(t, orderID, station, 1)
}

func (f *scenario) startMany(t *testing.T, orderID, station string, count int) commands.StartProductionResult {
	t.Helper()
	cmd, err := commands.NewStartProductionCommand(orderID, station, count, "operator", "")
	require.NoError(t, err)
	result, err := f.start.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return result
}

func (f *scenario) submit(t *testing.T, lot, decision string, reasons ...string) (commands.SubmitQualityDecisionResult, error) {
	t.Helper()
	cmd, err := commands.NewSubmitQualityDecisionCommand(lot, decision, reasons, "inspector", "")
	require.NoError(t, err)
	return f.decide.Handle(t.Context(), cmd)
}

func (f *scenario) unit(lot string) *unit.ProductionUnit {
	return f.store.units[lot]
}

func TestScenario_OverproductionOnSixthStart(t *testing.T) {
	f := newScenario(t)
	f.createOrder(t, "PO-1", 5)

	for i := range 5 {
		result := f.startOne(t, "PO-1", "BH12")
		require.Len(t, result.Lots, 1)
		assert.Empty(t, result.Overproduced)
		assert.Equal(t, i+1, result.Started)

		u := f.unit(result.Lots[0])
		assert.Equal(t, "PO-1", u.OrderID())
		assert.False(t, u.IsOverproduction())
	}
	assert.Equal(t, 5, f.store.counter("PO-1", "BH12"))
	assert.Empty(t, f.store.notificationsOf(notification.KindOverproduction))

	result := f.startOne(t, "PO-1", "BH12")

	require.Len(t, result.Overproduced, 1)
	u := f.unit(result.Overproduced[0])
	assert.True(t, u.IsOverproduction())
	assert.Equal(t, order.UnassignedOrderID, u.OrderID())
	assert.Equal(t, 6, f.store.counter("PO-1", "BH12"))

	notes := f.store.notificationsOf(notification.KindOverproduction)
	require.Len(t, notes, 1)
	assert.Equal(t, "PO-1", notes[0].RelatedOrder())
	assert.Equal(t, u.LotNumber(), notes[0].RelatedLot())
}

func TestScenario_OneNotificationPerOverflowingBatch(t *testing.T) {
	f := newScenario(t)
	f.createOrder(t, "PO-1", 2)

	result := f.startMany(t, "PO-1", "BH12", 5)

	assert.Len(t, result.Lots, 5)
	assert.Len(t, result.Overproduced, 3)
	assert.Equal(t, 5, f.store.counter("PO-1", "BH12"))
	assert.Len(t, f.store.notificationsOf(notification.KindOverproduction), 1)
}

func TestScenario_LotNumbersAreSequentialPerPrefix(t *testing.T) {
	f := newScenario(t)
	f.createOrder(t, "PO-1", 10)

	result := f.startMany(t, "PO-1", "BH12", 3)

	assert.Equal(t, []string{"402416012400001", "402416012400002", "402416012400003"}, result.Lots)

	next := f.startOne(t, "PO-1", "BH15")
	assert.Equal(t, []string{"402416015400001"}, next.Lots)
}

func TestScenario_FirstStartMovesOrderInProgress(t *testing.T) {
	f := newScenario(t)
	f.createOrder(t, "PO-1", 5)

	f.startOne(t, "PO-1", "BH12")

	assert.Equal(t, order.InProgress, f.store.orders["PO-1"].Status())
}

func TestScenario_ClosedOrderRefusesProduction(t *testing.T) {
	f := newScenario(t)
	f.createOrder(t, "PO-1", 5)
	o := f.store.orders["PO-1"]
	require.NoError(t, o.Cancel())

	cmd, err := commands.NewStartProductionCommand("PO-1", "BH12", 1, "operator", "")
	require.NoError(t, err)
	_, err = f.start.Handle(t.Context(), cmd)

	require.Error(t, err)
	assert.Equal(t, 0, f.store.counter("PO-1", "BH12"))
}

func TestScenario_FlangeRoutesThroughMazakToFinished(t *testing.T) {
	f := newScenario(t)
	f.createOrder(t, "PO-1", 5)
	lot := f.startOne(t, "PO-1", "BH12").Lots[0]

	res, err := f.submit(t, lot, "Approved")
	require.NoError(t, err)
	assert.Equal(t, kernel.StationMazak, res.Station)
	assert.Equal(t, unit.StageMazak, res.Stage)

	res, err = f.submit(t, lot, "Approved")
	require.NoError(t, err)
	assert.Equal(t, kernel.StationFinalQC, res.Station)
	assert.Equal(t, unit.StageFinalInspection, res.Stage)

	res, err = f.submit(t, lot, "Approved")
	require.NoError(t, err)
	assert.Equal(t, kernel.StationFinished, res.Station)
	assert.Equal(t, unit.StageFinished, res.Stage)
	assert.Equal(t, unit.StatusCompleted, res.Status)

	_, err = f.submit(t, lot, "Approved")
	require.ErrorIs(t, err, unit.ErrUnitIsTerminal)
	assert.Len(t, f.unit(lot).History(), 4)
}

func TestScenario_RejectionRollsBackRealOrderCounter(t *testing.T) {
	f := newScenario(t)
	f.createOrder(t, "PO-1", 1)
	assigned := f.startOne(t, "PO-1", "BH12").Lots[0]
	over := f.startOne(t, "PO-1", "BH12").Lots[0]
	require.Equal(t, 2, f.store.counter("PO-1", "BH12"))

	_, err := f.submit(t, over, "Rejected", "crack")
	require.NoError(t, err)
	assert.Equal(t, 2, f.store.counter("PO-1", "BH12"), "sentinel units do not roll back")

	res, err := f.submit(t, assigned, "Rejected", "crack")
	require.NoError(t, err)
	assert.Equal(t, kernel.StationRejected, res.Station)
	assert.Equal(t, unit.StatusRejected, res.Status)
	assert.Equal(t, 1, f.store.counter("PO-1", "BH12"))
}

func TestScenario_RollbackNeverGoesBelowZero(t *testing.T) {
	f := newScenario(t)
	f.createOrder(t, "PO-1", 5)
	lot := f.startOne(t, "PO-1", "BH12").Lots[0]
	f.store.counters["PO-1"]["BH12"] = 0

	_, err := f.submit(t, lot, "Rejected", "crack")

	require.NoError(t, err)
	assert.Equal(t, 0, f.store.counter("PO-1", "BH12"))
	assert.Equal(t, unit.StatusRejected, f.unit(lot).Status())
}

func TestScenario_UnroutableStationPinsUnit(t *testing.T) {
	f := newScenario(t)
	f.createOrder(t, "PO-1", 5)
	lot := f.startOne(t, "PO-1", "XR01").Lots[0]

	res, err := f.submit(t, lot, "Approved")

	require.NoError(t, err)
	assert.True(t, res.RoutingUndefined)
	assert.Equal(t, kernel.Station("XR01"), res.Station)
	assert.Equal(t, unit.StageActive, res.Stage)
	history := f.unit(lot).History()
	assert.Equal(t, unit.ActionRoutingUndefined, history[len(history)-1].Action())
}

func TestScenario_OverdueReworkNotifiesOnce(t *testing.T) {
	f := newScenario(t)
	f.createOrder(t, "PO-1", 5)
	lot := f.startOne(t, "PO-1", "BH12").Lots[0]
	_, err := f.submit(t, lot, "TempRejected", "burr")
	require.NoError(t, err)

	cmd, err := commands.NewFlagOverdueReworkCommand(commands.DefaultOverdueThreshold)
	require.NoError(t, err)

	f.clock.now = testNow.Add(6 * 24 * time.Hour)
	flagged, err := f.flag.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 0, flagged)

	f.clock.now = testNow.Add(8 * 24 * time.Hour)
	flagged, err = f.flag.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, flagged)
	assert.True(t, f.unit(lot).ReminderSent())

	f.clock.now = testNow.Add(9 * 24 * time.Hour)
	flagged, err = f.flag.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 0, flagged)

	notes := f.store.notificationsOf(notification.KindOverdueRework)
	require.Len(t, notes, 1)
	assert.Equal(t, lot, notes[0].RelatedLot())
}

func (f *scenario) reassignTo(t *testing.T, lot, orderID string) error {
	t.Helper()
	cmd, err := commands.NewReassignOverproducedUnitCommand(lot, orderID, "planner")
	require.NoError(t, err)
	return f.reassign.Handle(t.Context(), cmd)
}

func (f *scenario) closeOrder(t *testing.T, orderID, status string) {
	t.Helper()
	o := f.store.orders[orderID]
	if status == "completed" {
		require.NoError(t, o.Complete())
		return
	}
	require.NoError(t, o.Cancel())
}

// liveUnitsAt counts the non-rejected units whose start is held by orderID at station.
func (f *scenario) liveUnitsAt(orderID string, station kernel.Station) int {
	n := 0
	for _, u := range f.store.units {
		owner := u.OrderID()
		if u.IsOverproduction() {
			owner = u.OverproducedFrom()
		}
		if owner == orderID && u.OriginStation() == station && u.Status() != unit.StatusRejected {
			n++
		}
	}
	return n
}

func TestScenario_ReassignOverproducedUnit(t *testing.T) {
	f := newScenario(t)
	f.createOrder(t, "PO-1", 1)
	f.createOrder(t, "PO-2", 3)
	f.startOne(t, "PO-1", "BH12")
	over := f.startOne(t, "PO-1", "BH12").Overproduced[0]
	require.Equal(t, "PO-1", f.unit(over).OverproducedFrom())

	require.NoError(t, f.reassignTo(t, over, "PO-2"))

	u := f.unit(over)
	assert.Equal(t, "PO-2", u.OrderID())
	assert.False(t, u.IsOverproduction())
	assert.Empty(t, u.OverproducedFrom())
	assert.Equal(t, 1, f.store.counter("PO-1", "BH12"))
	assert.Equal(t, 1, f.store.counter("PO-2", "BH12"))
	assert.Equal(t, order.InProgress, f.store.orders["PO-2"].Status())

	err := f.reassignTo(t, over, "PO-2")
	require.ErrorIs(t, err, unit.ErrUnitIsNotOverproduced)
}

func TestScenario_ReassignKeepsCountersEqualToLiveUnits(t *testing.T) {
	f := newScenario(t)
	f.createOrder(t, "PO-1", 1)
	f.createOrder(t, "PO-2", 5)
	f.startOne(t, "PO-1", "BH12")
	overproduced := f.startMany(t, "PO-1", "BH12", 3).Overproduced
	require.Len(t, overproduced, 3)
	f.startOne(t, "PO-2", "BH12")

	require.NoError(t, f.reassignTo(t, overproduced[0], "PO-2"))
	require.NoError(t, f.reassignTo(t, overproduced[1], "PO-2"))

	for _, id := range []string{"PO-1", "PO-2"} {
		assert.Equal(t, f.liveUnitsAt(id, "BH12"), f.store.counter(id, "BH12"), id)
	}
	assert.Equal(t, 2, f.store.counter("PO-1", "BH12"))
	assert.Equal(t, 3, f.store.counter("PO-2", "BH12"))
	assert.Equal(t, len(f.store.units), f.store.counter("PO-1", "BH12")+f.store.counter("PO-2", "BH12"))
}

func TestScenario_ReassignToOwnOrderKeepsCounter(t *testing.T) {
	f := newScenario(t)
	f.createOrder(t, "PO-1", 1)
	assigned := f.startOne(t, "PO-1", "BH12").Lots[0]
	over := f.startOne(t, "PO-1", "BH12").Overproduced[0]

	err := f.reassignTo(t, over, "PO-1")
	require.ErrorIs(t, err, order.ErrOrderIsFull)
	assert.True(t, f.unit(over).IsOverproduction())
	assert.Equal(t, 2, f.store.counter("PO-1", "BH12"))

	_, err = f.submit(t, assigned, "Rejected", "crack")
	require.NoError(t, err)
	require.Equal(t, 1, f.store.counter("PO-1", "BH12"))

	require.NoError(t, f.reassignTo(t, over, "PO-1"))
	assert.Equal(t, "PO-1", f.unit(over).OrderID())
	assert.Equal(t, 1, f.store.counter("PO-1", "BH12"))
	assert.Equal(t, f.liveUnitsAt("PO-1", "BH12"), f.store.counter("PO-1", "BH12"))
}

func TestScenario_ReassignRefusesFullTarget(t *testing.T) {
	f := newScenario(t)
	f.createOrder(t, "PO-1", 1)
	f.createOrder(t, "PO-2", 1)
	f.startOne(t, "PO-1", "BH12")
	over := f.startOne(t, "PO-1", "BH12").Overproduced[0]
	f.startOne(t, "PO-2", "BH12")

	err := f.reassignTo(t, over, "PO-2")

	require.ErrorIs(t, err, order.ErrOrderIsFull)
	assert.True(t, f.unit(over).IsOverproduction())
	assert.Equal(t, "PO-1", f.unit(over).OverproducedFrom())
	assert.Equal(t, 2, f.store.counter("PO-1", "BH12"))
}

func TestScenario_ReassignRefusesClosedTarget(t *testing.T) {
	for _, status := range []string{"completed", "cancelled"} {
		t.Run(status, func(t *testing.T) {
			f := newScenario(t)
			f.createOrder(t, "PO-1", 1)
			f.createOrder(t, "PO-2", 3)
			f.startOne(t, "PO-1", "BH12")
			over := f.startOne(t, "PO-1", "BH12").Overproduced[0]
			f.startOne(t, "PO-2", "BH12")
			f.closeOrder(t, "PO-2", status)

			err := f.reassignTo(t, over, "PO-2")

			require.ErrorIs(t, err, order.ErrOrderIsClosed)
			assert.True(t, f.unit(over).IsOverproduction())
			assert.Equal(t, 1, f.store.counter("PO-2", "BH12"))
		})
	}
}
