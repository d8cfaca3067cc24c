package unitrepo_test

import (
	"context"
	"testing"
	"time"

	"lotflow/internal/adapters/out/postgres/unitrepo"
	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/core/domain/model/unit"
	"lotflow/internal/core/domain/services"
	"lotflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var createdAt = time.Date(2024, 4, 15, 8, 30, 0, 0, time.UTC)

type UnitRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *unitrepo.GormUnitRepository
}

func (suite *UnitRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&unitrepo.UnitDTO{}, &unitrepo.HistoryDTO{}))
}

func (suite *UnitRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE unit_history, production_units").Error)
	suite.repository = unitrepo.NewGormUnitRepository(suite.db)
}

func (suite *UnitRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitRepositoryIntegrationTestSuite) TestAdd_ThenGet_RoundTrips() {
	ctx := context.Background()
	u := suite.addUnit("402416012400001", false)
	suite.Empty(u.PendingHistory(), "history is marked persisted after Add")

	got, err := suite.repository.Get(ctx, "402416012400001")

	suite.Require().NoError(err)
	suite.Equal("PO-1", got.OrderID())
	suite.Equal(kernel.Station("BH12"), got.OriginStation())
	suite.Equal(kernel.Station("BH12"), got.CurrentStation())
	suite.Equal(unit.StageActive, got.Stage())
	suite.Equal(unit.StatusActive, got.Status())
	suite.Nil(got.Inspection())
	suite.True(got.CreatedAt().Equal(createdAt))
	suite.Require().Len(got.History(), 1)
	suite.Equal(unit.ActionCreated, got.History()[0].Action())
}

func (suite *UnitRepositoryIntegrationTestSuite) TestAdd_DuplicateLot_ReturnsConflict() {
	suite.addUnit("402416012400001", false)

	dup := suite.newUnit("402416012400001", false)
	err := suite.repository.Add(context.Background(), dup)

	suite.Require().ErrorIs(err, errs.ErrConflict)
}

func (suite *UnitRepositoryIntegrationTestSuite) TestGet_Missing_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), "402416012409999")

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitRepositoryIntegrationTestSuite) TestUpdate_AppendsHistoryInOrder() {
	ctx := context.Background()
	router := services.NewRoutingResolver(nil)
	u := suite.addUnit("402416012400001", false)

	suite.Require().NoError(u.TempReject([]string{"burr", "scratch"}, "inspector", "", createdAt.Add(time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, u))

	loaded, err := suite.repository.Get(ctx, u.LotNumber())
	suite.Require().NoError(err)
	suite.Equal(unit.StageHeld, loaded.Stage())
	suite.Require().NotNil(loaded.Inspection())
	suite.Equal(unit.DecisionTempRejected, loaded.Inspection().Result())
	suite.Equal([]string{"burr", "scratch"}, loaded.Inspection().Reasons())

	suite.Require().NoError(loaded.Approve(router, "inspector", "", createdAt.Add(2*time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	final, err := suite.repository.Get(ctx, u.LotNumber())
	suite.Require().NoError(err)
	suite.Equal(kernel.StationMazak, final.CurrentStation())
	suite.Equal(kernel.Station("BH12"), final.LastStation())
	suite.Nil(final.Inspection())

	actions := make([]unit.Action, 0)
	for _, h := range final.History() {
		actions = append(actions, h.Action())
	}
	suite.Equal([]unit.Action{unit.ActionCreated, unit.ActionTempRejected, unit.ActionApproved}, actions)
}

func (suite *UnitRepositoryIntegrationTestSuite) TestUpdate_Missing_ReturnsNotFound() {
	u := suite.newUnit("402416012400001", false)

	err := suite.repository.Update(context.Background(), u)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitRepositoryIntegrationTestSuite) TestOverproducedUnit_CarriesSentinelOrder() {
	u := suite.addUnit("402416012400006", true)

	got, err := suite.repository.Get(context.Background(), u.LotNumber())

	suite.Require().NoError(err)
	suite.True(got.IsOverproduction())
	suite.Equal(order.UnassignedOrderID, got.OrderID())
	suite.Equal("PO-1", got.OverproducedFrom())
}

func (suite *UnitRepositoryIntegrationTestSuite) TestReassignedUnit_ForgetsSourceOrder() {
	ctx := context.Background()
	u := suite.addUnit("402416012400007", true)

	suite.Require().NoError(u.Reassign("PO-2", "planner", createdAt))
	suite.Require().NoError(suite.repository.Update(ctx, u))

	got, err := suite.repository.Get(ctx, u.LotNumber())
	suite.Require().NoError(err)
	suite.False(got.IsOverproduction())
	suite.Equal("PO-2", got.OrderID())
	suite.Empty(got.OverproducedFrom())
}

func (suite *UnitRepositoryIntegrationTestSuite) TestGetHeldSince_ReturnsOnlyOverdueCandidates() {
	ctx := context.Background()
	old := suite.addUnit("402416012400001", false)
	recent := suite.addUnit("402416012400002", false)
	suite.addUnit("402416012400003", false)

	suite.Require().NoError(old.TempReject([]string{"burr"}, "inspector", "", createdAt))
	suite.Require().NoError(suite.repository.Update(ctx, old))
	suite.Require().NoError(recent.TempReject([]string{"burr"}, "inspector", "", createdAt.Add(5*24*time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, recent))

	held, err := suite.repository.GetHeldSince(ctx, createdAt.Add(24*time.Hour))

	suite.Require().NoError(err)
	suite.Require().Len(held, 1)
	suite.Equal(old.LotNumber(), held[0].LotNumber())
	suite.Len(held[0].History(), 2)
}

func (suite *UnitRepositoryIntegrationTestSuite) TestMarkReminderSent_ClaimsOnce() {
	ctx := context.Background()
	u := suite.addUnit("402416012400001", false)
	suite.Require().NoError(u.TempReject([]string{"burr"}, "inspector", "", createdAt))
	suite.Require().NoError(suite.repository.Update(ctx, u))

	claimed, err := suite.repository.MarkReminderSent(ctx, u.LotNumber(), createdAt.Add(8*24*time.Hour))
	suite.Require().NoError(err)
	suite.True(claimed)

	claimed, err = suite.repository.MarkReminderSent(ctx, u.LotNumber(), createdAt.Add(9*24*time.Hour))
	suite.Require().NoError(err)
	suite.False(claimed)

	held, err := suite.repository.GetHeldSince(ctx, createdAt.Add(24*time.Hour))
	suite.Require().NoError(err)
	suite.Empty(held)
}

func (suite *UnitRepositoryIntegrationTestSuite) TestMarkReminderSent_IgnoresActiveUnits() {
	u := suite.addUnit("402416012400001", false)

	claimed, err := suite.repository.MarkReminderSent(context.Background(), u.LotNumber(), createdAt)

	suite.Require().NoError(err)
	suite.False(claimed)
}

func (suite *UnitRepositoryIntegrationTestSuite) newUnit(lot string, overproduced bool) *unit.ProductionUnit {
	u, err := unit.NewProductionUnit(unit.NewUnitParams{
		LotNumber:      lot,
		OrderID:        "PO-1",
		ItemCode:       "FL-100",
		Item:           "FL-Flange-100",
		Station:        "BH12",
		Overproduction: overproduced,
		Actor:          "operator",
		Now:            createdAt,
	})
	suite.Require().NoError(err)
	return u
}

func (suite *UnitRepositoryIntegrationTestSuite) addUnit(lot string, overproduced bool) *unit.ProductionUnit {
	u := suite.newUnit(lot, overproduced)
	suite.Require().NoError(suite.repository.Add(context.Background(), u))
	return u
}

func TestUnitRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitRepositoryIntegrationTestSuite))
}
