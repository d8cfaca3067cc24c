package commands_test

import (
	"testing"
	"time"

	"lotflow/internal/core/application/usecases/commands"
	"lotflow/internal/core/domain/model/notification"
	"lotflow/internal/core/domain/model/unit"
	"lotflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func heldUnit(t *testing.T, heldAt time.Time) *unit.ProductionUnit {
	t.Helper()
	u := newTestUnit(t, "BH12", false)
	require.NoError(t, u.TempReject([]string{"burr"}, "inspector", "", heldAt))
	return u
}

func TestFlagOverdueReworkCommandHandler_Handle_EmitsOnce(t *testing.T) {
	ctx := t.Context()
	now := testNow.Add(8 * 24 * time.Hour)
	cmd, _ := commands.NewFlagOverdueReworkCommand(commands.DefaultOverdueThreshold)
	u := heldUnit(t, testNow)

	units := new(MockUnitRepository)
	notifications := new(MockNotificationRepository)
	uow := new(MockUoW)
	publisher := new(MockPublisher)
	uow.On("UnitRepository").Return(units).Once()
	uow.On("NotificationRepository").Return(notifications).Once()

	var raised *notification.Notification
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		units.On("GetHeldSince", ctx, now.Add(-commands.DefaultOverdueThreshold)).
			Return([]*unit.ProductionUnit{u}, nil).Once(),
		units.On("MarkReminderSent", ctx, u.LotNumber(), now).Return(true, nil).Once(),
		notifications.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).
			Run(func(args mock.Arguments) { raised = args.Get(1).(*notification.Notification) }).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	publisher.On("UnitChanged", ctx, u).Return(nil).Once()
	publisher.On("NotificationRaised", ctx, mock.Anything).Return(nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewFlagOverdueReworkCommandHandler(factory, publisher, &fixedClock{now: now}, testLogger, nil)
	flagged, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, flagged)
	assert.True(t, u.ReminderSent())
	require.NotNil(t, raised)
	assert.Equal(t, notification.KindOverdueRework, raised.Kind())
	assert.Equal(t, u.LotNumber(), raised.RelatedLot())
	units.AssertExpectations(t)
	notifications.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestFlagOverdueReworkCommandHandler_Handle_ClaimLost(t *testing.T) {
	ctx := t.Context()
	now := testNow.Add(8 * 24 * time.Hour)
	cmd, _ := commands.NewFlagOverdueReworkCommand(commands.DefaultOverdueThreshold)
	u := heldUnit(t, testNow)

	units := new(MockUnitRepository)
	notifications := new(MockNotificationRepository)
	uow := new(MockUoW)
	uow.On("UnitRepository").Return(units).Once()
	uow.On("NotificationRepository").Return(notifications).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	units.On("GetHeldSince", ctx, mock.Anything).Return([]*unit.ProductionUnit{u}, nil).Once()
	units.On("MarkReminderSent", ctx, u.LotNumber(), now).Return(false, nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewFlagOverdueReworkCommandHandler(factory, nil, &fixedClock{now: now}, testLogger, nil)
	flagged, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 0, flagged)
	assert.False(t, u.ReminderSent())
	notifications.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestFlagOverdueReworkCommandHandler_Handle_SkipsUnitsInsideThreshold(t *testing.T) {
	ctx := t.Context()
	now := testNow.Add(7 * 24 * time.Hour)
	cmd, _ := commands.NewFlagOverdueReworkCommand(commands.DefaultOverdueThreshold)
	u := heldUnit(t, testNow)

	units := new(MockUnitRepository)
	uow := new(MockUoW)
	uow.On("UnitRepository").Return(units).Once()
	uow.On("NotificationRepository").Return(new(MockNotificationRepository)).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	units.On("GetHeldSince", ctx, mock.Anything).Return([]*unit.ProductionUnit{u}, nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewFlagOverdueReworkCommandHandler(factory, nil, &fixedClock{now: now}, testLogger, nil)
	flagged, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 0, flagged)
	units.AssertNotCalled(t, "MarkReminderSent", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewFlagOverdueReworkCommand(t *testing.T) {
	cmd, err := commands.NewFlagOverdueReworkCommand(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cmd.Threshold())

	_, err = commands.NewFlagOverdueReworkCommand(0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
