package commands_test

import (
	"context"
	"log/slog"
	"time"

	"lotflow/internal/core/application/usecases/commands"
	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/notification"
	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/core/domain/model/unit"
	"lotflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

var (
	testNow    = time.Date(2024, time.April, 15, 8, 30, 0, 0, time.UTC)
	testLogger = slog.New(slog.DiscardHandler)
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) IncrementStarted(ctx context.Context, orderID string, station kernel.Station) (int, error) {
	args := m.Called(ctx, orderID, station)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) DecrementStarted(
	ctx context.Context,
	orderID string,
	station kernel.Station,
) (int, bool, error) {
	args := m.Called(ctx, orderID, station)
	return args.Int(0), args.Bool(1), args.Error(2)
}

type MockUnitRepository struct{ mock.Mock }

func (m *MockUnitRepository) Add(ctx context.Context, u *unit.ProductionUnit) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUnitRepository) Update(ctx context.Context, u *unit.ProductionUnit) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUnitRepository) Get(ctx context.Context, lotNumber string) (*unit.ProductionUnit, error) {
	args := m.Called(ctx, lotNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*unit.ProductionUnit), args.Error(1)
}

func (m *MockUnitRepository) GetHeldSince(ctx context.Context, cutoff time.Time) ([]*unit.ProductionUnit, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*unit.ProductionUnit), args.Error(1)
}

func (m *MockUnitRepository) MarkReminderSent(ctx context.Context, lotNumber string, at time.Time) (bool, error) {
	args := m.Called(ctx, lotNumber, at)
	return args.Bool(0), args.Error(1)
}

type MockLotSequenceRepository struct{ mock.Mock }

func (m *MockLotSequenceRepository) Next(ctx context.Context, prefix string) (int, error) {
	args := m.Called(ctx, prefix)
	return args.Int(0), args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) UnitRepository() ports.UnitRepository {
	args := m.Called()
	return args.Get(0).(ports.UnitRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) LotSequenceRepository() ports.LotSequenceRepository {
	args := m.Called()
	return args.Get(0).(ports.LotSequenceRepository)
}

func (m *MockUoW) NotificationRepository() ports.NotificationRepository {
	args := m.Called()
	return args.Get(0).(ports.NotificationRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) UnitChanged(ctx context.Context, u *unit.ProductionUnit) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockPublisher) OrderChanged(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockPublisher) NotificationRaised(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
