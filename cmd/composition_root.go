package cmd

import (
	"log/slog"

	httpapi "lotflow/internal/adapters/in/http"
	"lotflow/internal/adapters/in/ws"
	"lotflow/internal/adapters/out/events"
	"lotflow/internal/adapters/out/natsbus"
	"lotflow/internal/adapters/out/postgres"
	"lotflow/internal/changefeed"
	"lotflow/internal/core/application/usecases/commands"
	"lotflow/internal/core/application/usecases/queries"
	"lotflow/internal/core/domain/services"
	"lotflow/internal/jobs"
	"lotflow/internal/metrics"
	"lotflow/internal/routingconfig"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	Metrics *metrics.Metrics
	Feed    *changefeed.Broker
	stream  *natsbus.Publisher

	publisher  *events.Publisher
	router     *services.RoutingResolver
	reconciler *commands.OrderReconciler
	clock      commands.Clock
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	topology := services.DefaultTopology()
	if configs.RoutingFile != "" {
		loaded, err := routingconfig.LoadFile(configs.RoutingFile)
		if err != nil {
			return nil, err
		}
		topology = loaded
		logger.Info("routing topology loaded", "file", configs.RoutingFile)
	}

	m := metrics.New()
	feed := changefeed.NewBroker(m.ChangeFeedDropped)

	c := &CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		Metrics:    m,
		Feed:       feed,
		router:     services.NewRoutingResolver(topology),
		reconciler: commands.NewOrderReconciler(logger, m),
		clock:      commands.SystemClock{},
	}

	if configs.NATSURL != "" {
		stream, err := natsbus.NewPublisher(configs.NATSURL, logger)
		if err != nil {
			return nil, err
		}
		c.stream = stream
		c.publisher = events.NewPublisher(feed, stream)
	} else {
		c.publisher = events.NewPublisher(feed, nil)
	}

	return c, nil
}

// Close releases the change feed and the NATS connection.
func (c *CompositionRoot) Close() {
	c.Feed.Close()
	if c.stream != nil {
		if err := c.stream.Close(); err != nil {
			c.logger.Warn("failed to drain NATS connection", "error", err)
		}
	}
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoW() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoW(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderUoW(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateStartProductionCommandHandler() commands.StartProductionCommandHandler {
	return commands.NewStartProductionCommandHandler(
		c.uow(), c.reconciler, c.publisher, c.clock, c.logger, c.Metrics)
}

func (c *CompositionRoot) CreateSubmitQualityDecisionCommandHandler() commands.SubmitQualityDecisionCommandHandler {
	return commands.NewSubmitQualityDecisionCommandHandler(
		c.uow(), c.router, c.reconciler, c.publisher, c.clock, c.logger, c.Metrics)
}

func (c *CompositionRoot) CreateReassignOverproducedUnitCommandHandler() commands.ReassignOverproducedUnitCommandHandler {
	return commands.NewReassignOverproducedUnitCommandHandler(c.uow(), c.reconciler, c.publisher, c.clock, c.logger)
}

func (c *CompositionRoot) CreateFlagOverdueReworkCommandHandler() commands.FlagOverdueReworkCommandHandler {
	return commands.NewFlagOverdueReworkCommandHandler(c.uow(), c.publisher, c.clock, c.logger, c.Metrics)
}

func (c *CompositionRoot) CreateGetOrderProgressQueryHandler() queries.GetOrderProgressQueryHandler {
	return queries.NewGetOrderProgressQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOverproducedUnitsQueryHandler() queries.GetOverproducedUnitsQueryHandler {
	return queries.NewGetOverproducedUnitsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStationUnitsQueryHandler() queries.GetStationUnitsQueryHandler {
	return queries.NewGetStationUnitsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRecentNotificationsQueryHandler() queries.GetRecentNotificationsQueryHandler {
	return queries.NewGetRecentNotificationsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpapi.Server {
	return httpapi.NewServer(httpapi.Handlers{
		CreateOrder:              c.CreateCreateOrderCommandHandler(),
		ChangeOrderStatus:        c.CreateChangeOrderStatusCommandHandler(),
		StartProduction:          c.CreateStartProductionCommandHandler(),
		SubmitQualityDecision:    c.CreateSubmitQualityDecisionCommandHandler(),
		ReassignOverproducedUnit: c.CreateReassignOverproducedUnitCommandHandler(),
		OrderProgress:            c.CreateGetOrderProgressQueryHandler(),
		OverproducedUnits:        c.CreateGetOverproducedUnitsQueryHandler(),
		StationUnits:             c.CreateGetStationUnitsQueryHandler(),
		RecentNotifications:      c.CreateGetRecentNotificationsQueryHandler(),
	})
}

func (c *CompositionRoot) CreateFeedHandler() *ws.Handler {
	return ws.NewHandler(c.Feed, c.configs.FeedBuffer, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	overdue := jobs.NewOverdueReworkJob(
		c.CreateFlagOverdueReworkCommandHandler(),
		c.configs.OverdueThreshold,
		c.configs.OverdueCronSpec,
		c.Metrics,
		c.logger,
	)
	return jobs.NewJobManager(overdue)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
