package correlation

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	httpadapter "github.com/vinodmerwade/OrgCheck/internal/correlation/adapter/http"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/adapter/persistence"
	mongodbpersistence "github.com/vinodmerwade/OrgCheck/internal/correlation/adapter/persistence/mongodb"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/adapter/salesforce"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/adapter/scoring"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/config"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/repository"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/usecase"
	"github.com/vinodmerwade/OrgCheck/internal/shared/eventbus"
	"github.com/vinodmerwade/OrgCheck/internal/shared/logger"
)

// CorrelationModule wires the org client, the datasets and their optional
// cache and snapshot archive.
type CorrelationModule struct {
	Config    *config.Config
	Client    *salesforce.Client
	Usecase   usecase.CorrelationUsecase
	EventBus  eventbus.EventBusInterface
	Cache     repository.ResultCache
	Snapshots repository.SnapshotStore
	Logger    logger.Logger

	RedisClient *redis.Client
	SnapshotDB  *mongo.Database
}

// NewCorrelationModule creates the module. redisClient and snapshotDB may be
// nil, which disables the result cache and the snapshot archive.
func NewCorrelationModule(
	cfg *config.Config,
	log logger.Logger,
	redisClient *redis.Client,
	snapshotDB *mongo.Database,
) (*CorrelationModule, error) {
	log.Info("Initializing Correlation Module...")

	if cfg == nil {
		cfg = config.DefaultConfig()
		log.Info("No configuration provided, using defaults.")
	}
	if err := cfg.RequireOrg(); err != nil {
		return nil, err
	}

	client := salesforce.NewClient(cfg.Salesforce, log)
	urls := salesforce.NewSetupURLBuilder(cfg.Salesforce.InstanceURL)
	dependencies := salesforce.NewDependencyService(client, urls, cfg.Bulk.DependencyChunkSize)
	bulk := usecase.NewBulkFetcher(client, usecase.BulkFetcherOptions{
		ChunkSize:   cfg.Bulk.ChunkSize,
		MaxParallel: cfg.Bulk.MaxParallel,
	}, log)

	scorer, err := scoring.NewDefaultScorer(scoring.Options{MinAPIVersion: cfg.Scoring.MinAPIVersion})
	if err != nil {
		return nil, fmt.Errorf("failed to compile scoring rules: %w", err)
	}

	bus := eventbus.NewEventBus(log)

	m := &CorrelationModule{
		Config:      cfg,
		Client:      client,
		EventBus:    bus,
		Logger:      log,
		RedisClient: redisClient,
		SnapshotDB:  snapshotDB,
	}
	deps := usecase.CorrelationDeps{
		Queries:             client,
		Describer:           client,
		Counter:             client,
		Dependencies:        dependencies,
		Bulk:                bulk,
		URLs:                urls,
		Scorer:              scorer,
		ToleratedErrorCodes: cfg.Bulk.ToleratedErrorCodes,
		Bus:                 bus,
	}
	if redisClient != nil {
		cache := persistence.NewRedisResultCache(redisClient, cfg.Cache.Prefix, cfg.Cache.TTL, log)
		m.Cache, deps.Cache = cache, cache
		log.Info("Result cache enabled.")
	}
	if snapshotDB != nil {
		snapshots := mongodbpersistence.NewSnapshotRepository(snapshotDB, log)
		m.Snapshots, deps.Snapshots = snapshots, snapshots
		log.Info("Snapshot archive enabled.")
	}
	m.Usecase = usecase.NewCorrelationUsecase(deps, log)

	log.Info("Correlation Module initialized successfully.")
	return m, nil
}

// RegisterRoutes registers the HTTP and WebSocket routes of the module.
func (m *CorrelationModule) RegisterRoutes(router fiber.Router) {
	httpadapter.NewProgressHandler(m.EventBus, m.Config.Server.ProgressPath, m.Logger).RegisterRoutes(router)
	httpadapter.NewCorrelationHandler(m.Usecase, m.Logger).RegisterRoutes(router)
	m.Logger.Info("Correlation HTTP routes and progress WebSocket registered.")
}

// HealthCheck pings the optional backing stores.
func (m *CorrelationModule) HealthCheck(ctx context.Context) error {
	if m.RedisClient != nil {
		if err := m.RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis health check failed: %w", err)
		}
	}
	if m.SnapshotDB != nil {
		if err := m.SnapshotDB.Client().Ping(ctx, nil); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}
	return nil
}

// Stop gracefully shuts down the module.
func (m *CorrelationModule) Stop() error {
	m.Logger.Info("Stopping Correlation Module...")
	m.Logger.Info("Correlation Module stopped.")
	return nil
}
