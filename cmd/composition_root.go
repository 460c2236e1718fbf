package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	httpadapter "fleet/internal/adapters/in/http"
	"fleet/internal/adapters/out/memory"
	"fleet/internal/adapters/out/metrics"
	mongohistory "fleet/internal/adapters/out/mongo/historyrepo"
	"fleet/internal/adapters/out/mqttpub"
	"fleet/internal/adapters/out/postgres"
	pghistory "fleet/internal/adapters/out/postgres/historyrepo"
	"fleet/internal/adapters/out/redispub"
	"fleet/internal/core/application/notifier"
	"fleet/internal/core/application/usecases/commands"
	"fleet/internal/core/application/usecases/queries"
	"fleet/internal/core/domain/services"
	"fleet/internal/core/ports"
	"fleet/internal/jobs"
	"fleet/internal/pkg/clock"
	"fleet/internal/pkg/keylock"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const connectTimeout = 10 * time.Second

// CompositionRoot owns every long-lived dependency and builds the use case
// handlers from them.
type CompositionRoot struct {
	config    Config
	logger    *slog.Logger
	clock     ports.Clock
	locks     *keylock.KeyLock
	validator services.TransitionValidator
	notifier  *notifier.Notifier
	metrics   *metrics.Metrics

	gormDB  *gorm.DB
	store   ports.EntityStore
	history ports.StatusHistoryRepository

	closers []func(context.Context) error
}

// NewCompositionRoot connects the configured stores and subscribes the
// configured listeners. Close releases whatever was opened, also after an error.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		config:    cfg,
		logger:    logger,
		clock:     clock.System{},
		locks:     keylock.New(),
		validator: services.NewTransitionValidator(),
		notifier:  notifier.New(logger),
		metrics:   metrics.New(),
	}

	if err := c.connectStores(ctx); err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	if err := c.subscribeListeners(); err != nil {
		_ = c.Close(ctx)
		return nil, err
	}

	return c, nil
}

func (c *CompositionRoot) connectStores(ctx context.Context) error {
	if c.config.NeedsPostgres() {
		db, err := postgres.Connect(postgres.Options{DSN: c.config.DSN(), Driver: c.config.DBDriver})
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		c.gormDB = db
		c.closers = append(c.closers, func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})

		if err = postgres.Migrate(db); err != nil {
			return fmt.Errorf("migrate postgres: %w", err)
		}
	}

	switch c.config.StoreBackend {
	case StoreBackendMemory:
		c.store = memory.NewEntityStore()
	default:
		c.store = postgres.NewGormEntityStore(c.gormDB)
	}

	switch c.config.HistoryBackend {
	case HistoryBackendMongo:
		client, err := mongohistory.Connect(ctx, c.config.MongoURI, connectTimeout)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, client.Disconnect)

		database := c.config.MongoDatabase
		if database == "" {
			database = DefaultMongoDatabase
		}
		repo := mongohistory.NewMongoHistoryRepository(client.Database(database), c.clock)
		if err = repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		c.history = repo
	default:
		c.history = pghistory.NewGormHistoryRepository(c.gormDB, c.clock)
	}

	c.logger.Info("stores connected",
		"entityStore", c.config.StoreBackend,
		"historyLog", c.config.HistoryBackend)
	return nil
}

func (c *CompositionRoot) subscribeListeners() error {
	c.notifier.Subscribe("metrics", c.metrics)

	if c.config.RedisAddr != "" {
		client := redispub.NewClient(c.config.RedisAddr)
		c.closers = append(c.closers, func(context.Context) error { return client.Close() })
		c.notifier.Subscribe("redis", redispub.NewPublisher(client, c.config.RedisChannel))
	}

	if c.config.MQTTBroker != "" {
		clientID := c.config.MQTTClientID
		if clientID == "" {
			clientID = DefaultMQTTClientID
		}
		client, err := mqttpub.Connect(c.config.MQTTBroker, clientID, connectTimeout)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, func(context.Context) error {
			client.Disconnect(250)
			return nil
		})
		c.notifier.Subscribe("mqtt", mqttpub.NewPublisher(client, c.config.MQTTTopicPrefix))
	}

	c.logger.Info("status listeners subscribed", "count", c.notifier.Len())
	return nil
}

// Close releases connections in reverse order of opening.
func (c *CompositionRoot) Close(ctx context.Context) error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}

func (c *CompositionRoot) Notifier() *notifier.Notifier {
	return c.notifier
}

func (c *CompositionRoot) statusRecorder() *commands.StatusRecorder {
	return commands.NewStatusRecorder(c.history, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateTransitionVehicleStatusCommandHandler() *commands.TransitionVehicleStatusCommandHandler {
	return commands.NewTransitionVehicleStatusCommandHandler(c.store, c.locks, c.statusRecorder(), c.validator, c.clock)
}

func (c *CompositionRoot) CreateTransitionDriverStatusCommandHandler() *commands.TransitionDriverStatusCommandHandler {
	return commands.NewTransitionDriverStatusCommandHandler(c.store, c.locks, c.statusRecorder(), c.validator)
}

func (c *CompositionRoot) CreateTransitionTripStatusCommandHandler() *commands.TransitionTripStatusCommandHandler {
	return commands.NewTransitionTripStatusCommandHandler(
		c.store,
		c.locks,
		c.statusRecorder(),
		c.validator,
		c.CreateDispatchTripCommandHandler(),
		c.CreateCancelTripCommandHandler(),
	)
}

func (c *CompositionRoot) CreateDispatchTripCommandHandler() *commands.DispatchTripCommandHandler {
	return commands.NewDispatchTripCommandHandler(c.store, c.locks, c.statusRecorder(), c.validator, c.clock, c.logger)
}

func (c *CompositionRoot) CreateCompleteTripCommandHandler() *commands.CompleteTripCommandHandler {
	return commands.NewCompleteTripCommandHandler(c.store, c.locks, c.statusRecorder(), c.validator, c.logger)
}

func (c *CompositionRoot) CreateCancelTripCommandHandler() *commands.CancelTripCommandHandler {
	return commands.NewCancelTripCommandHandler(c.store, c.locks, c.statusRecorder(), c.validator, c.logger)
}

func (c *CompositionRoot) CreateCorrectStatusCommandHandler() *commands.CorrectStatusCommandHandler {
	return commands.NewCorrectStatusCommandHandler(c.store, c.history, c.locks, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateCheckStatusConsistencyQueryHandler() queries.CheckStatusConsistencyQueryHandler {
	return queries.NewCheckStatusConsistencyQueryHandler(c.store, c.history, c.locks)
}

func (c *CompositionRoot) CreateGetStatusHistoryQueryHandler() queries.GetStatusHistoryQueryHandler {
	return queries.NewGetStatusHistoryQueryHandler(c.store, c.history)
}

func (c *CompositionRoot) CreateGetRecentStatusChangesQueryHandler() queries.GetRecentStatusChangesQueryHandler {
	return queries.NewGetRecentStatusChangesQueryHandler(c.history, c.clock)
}

func (c *CompositionRoot) CreateGetStatusChangeStatsQueryHandler() queries.GetStatusChangeStatsQueryHandler {
	return queries.NewGetStatusChangeStatsQueryHandler(c.history)
}

func (c *CompositionRoot) CreateGetCurrentStatusQueryHandler() queries.GetCurrentStatusQueryHandler {
	return queries.NewGetCurrentStatusQueryHandler(c.store, c.history)
}

func (c *CompositionRoot) CreateGetStatusOverviewQueryHandler() queries.GetStatusOverviewQueryHandler {
	return queries.NewGetStatusOverviewQueryHandler(c.history, c.clock)
}

// CreateGetFleetStatusSummaryQueryHandler returns nil unless live state is in Postgres.
func (c *CompositionRoot) CreateGetFleetStatusSummaryQueryHandler() *queries.GetFleetStatusSummaryQueryHandler {
	if c.config.StoreBackend != StoreBackendPostgres {
		return nil
	}
	h := queries.NewGetFleetStatusSummaryQueryHandler(c.gormDB)
	return &h
}

// CreateHTTPServer builds the echo instance with every route.
func (c *CompositionRoot) CreateHTTPServer(ctx context.Context) (*echo.Echo, error) {
	server := httpadapter.NewServer(httpadapter.Handlers{
		TransitionVehicleStatus: c.CreateTransitionVehicleStatusCommandHandler(),
		TransitionDriverStatus:  c.CreateTransitionDriverStatusCommandHandler(),
		TransitionTripStatus:    c.CreateTransitionTripStatusCommandHandler(),
		DispatchTrip:            c.CreateDispatchTripCommandHandler(),
		CompleteTrip:            c.CreateCompleteTripCommandHandler(),
		CancelTrip:              c.CreateCancelTripCommandHandler(),
		CorrectStatus:           c.CreateCorrectStatusCommandHandler(),
		CheckStatusConsistency:  c.CreateCheckStatusConsistencyQueryHandler(),
		GetStatusHistory:        c.CreateGetStatusHistoryQueryHandler(),
		GetRecentStatusChanges:  c.CreateGetRecentStatusChangesQueryHandler(),
		GetStatusChangeStats:    c.CreateGetStatusChangeStatsQueryHandler(),
		GetCurrentStatus:        c.CreateGetCurrentStatusQueryHandler(),
		GetStatusOverview:       c.CreateGetStatusOverviewQueryHandler(),
		FleetStatusSummary:      c.CreateGetFleetStatusSummaryQueryHandler(),
	}, c.logger)

	return httpadapter.NewRouter(ctx, server, c.metrics.Handler())
}

// CreateJobManager schedules the consistency sweep and the history purge.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	sweepSchedule := c.config.ConsistencySweepSchedule
	if sweepSchedule == "" {
		sweepSchedule = DefaultConsistencySweepSchedule
	}
	purgeSchedule := c.config.HistoryPurgeSchedule
	if purgeSchedule == "" {
		purgeSchedule = DefaultHistoryPurgeSchedule
	}

	return jobs.NewJobManager(
		jobs.NewConsistencySweepJob(c.store, c.CreateCorrectStatusCommandHandler(), sweepSchedule, c.logger),
		jobs.NewHistoryRetentionJob(c.history, c.clock, c.config.HistoryRetention(), c.metrics, purgeSchedule, c.logger),
	)
}
