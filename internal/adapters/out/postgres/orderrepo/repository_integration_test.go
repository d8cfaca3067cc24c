package orderrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"lotflow/internal/adapters/out/postgres/orderrepo"
	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OrderRepositoryIntegrationTestSuite runs the order repository against a PostgreSQL
// container.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.CounterDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE order_station_counters, orders").Error)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ThenGet_RoundTrips() {
	ctx := context.Background()
	o := suite.addOrder("PO-1", 5)

	got, err := suite.repository.Get(ctx, o.ID())

	suite.Require().NoError(err)
	suite.Equal("PO-1", got.ID())
	suite.Equal("FL-100", got.ItemCode())
	suite.Equal("FL-Flange-100", got.Item())
	suite.Equal(5, got.PlannedQuantity())
	suite.Equal(order.Pending, got.Status())
	suite.Empty(got.StartedAtStation())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateID_ReturnsConflict() {
	ctx := context.Background()
	suite.addOrder("PO-1", 5)

	again, err := order.NewOrder("PO-1", "FL-200", "FL-Flange-200", 3)
	suite.Require().NoError(err)

	err = suite.repository.Add(ctx, again)

	suite.Require().ErrorIs(err, errs.ErrConflict)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_Missing_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), "PO-404")

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsStatus() {
	ctx := context.Background()
	o := suite.addOrder("PO-1", 5)
	suite.Require().NoError(o.Start())

	suite.Require().NoError(suite.repository.Update(ctx, o))

	got, err := suite.repository.Get(ctx, "PO-1")
	suite.Require().NoError(err)
	suite.Equal(order.InProgress, got.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_Missing_ReturnsNotFound() {
	o, err := order.NewOrder("PO-404", "FL-100", "FL-Flange-100", 5)
	suite.Require().NoError(err)

	err = suite.repository.Update(context.Background(), o)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestIncrementStarted_CreatesAndAdvancesCounter() {
	ctx := context.Background()
	suite.addOrder("PO-1", 5)

	first, err := suite.repository.IncrementStarted(ctx, "PO-1", "BH12")
	suite.Require().NoError(err)
	second, err := suite.repository.IncrementStarted(ctx, "PO-1", "BH12")
	suite.Require().NoError(err)
	other, err := suite.repository.IncrementStarted(ctx, "PO-1", "BH15")
	suite.Require().NoError(err)

	suite.Equal(1, first)
	suite.Equal(2, second)
	suite.Equal(1, other)

	got, err := suite.repository.Get(ctx, "PO-1")
	suite.Require().NoError(err)
	suite.Equal(map[kernel.Station]int{"BH12": 2, "BH15": 1}, got.StartedAtStation())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestIncrementStarted_ConcurrentCallsLoseNothing() {
	ctx := context.Background()
	suite.addOrder("PO-1", 100)

	const workers = 20
	results := make(chan int, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := suite.repository.IncrementStarted(ctx, "PO-1", "BH12")
			if err == nil {
				results <- n
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool)
	for n := range results {
		seen[n] = true
	}
	suite.Len(seen, workers, "every increment observes a distinct value")

	got, err := suite.repository.Get(ctx, "PO-1")
	suite.Require().NoError(err)
	suite.Equal(workers, got.StartedAt("BH12"))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestDecrementStarted_StopsAtZero() {
	ctx := context.Background()
	suite.addOrder("PO-1", 5)
	_, err := suite.repository.IncrementStarted(ctx, "PO-1", "BH12")
	suite.Require().NoError(err)

	value, decremented, err := suite.repository.DecrementStarted(ctx, "PO-1", "BH12")
	suite.Require().NoError(err)
	suite.True(decremented)
	suite.Equal(0, value)

	value, decremented, err = suite.repository.DecrementStarted(ctx, "PO-1", "BH12")
	suite.Require().NoError(err)
	suite.False(decremented)
	suite.Equal(0, value)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestDecrementStarted_MissingCounter() {
	suite.addOrder("PO-1", 5)

	value, decremented, err := suite.repository.DecrementStarted(context.Background(), "PO-1", "BH99")

	suite.Require().NoError(err)
	suite.False(decremented)
	suite.Equal(0, value)
}

func (suite *OrderRepositoryIntegrationTestSuite) addOrder(id string, planned int) *order.Order {
	o, err := order.NewOrder(id, "FL-100", "FL-Flange-100", planned)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(context.Background(), o))
	return o
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
