package di

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vinodmerwade/OrgCheck/internal/correlation"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/adapter/persistence"
	mongodbpersistence "github.com/vinodmerwade/OrgCheck/internal/correlation/adapter/persistence/mongodb"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/config"
	"github.com/vinodmerwade/OrgCheck/internal/shared/logger"
)

// Container owns the process wide connections and the correlation module.
type Container struct {
	mu sync.RWMutex

	Config *config.Config
	Logger logger.Logger

	// Optional backing stores, nil when not configured.
	Redis *redis.Client
	Mongo *mongo.Client

	CorrelationModule *correlation.CorrelationModule
}

// NewContainer creates a container for cfg.
func NewContainer(cfg *config.Config, log logger.Logger) *Container {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logger.NewLogger()
	}
	return &Container{Config: cfg, Logger: log}
}

// InitializeStores connects the result cache and the snapshot archive when
// their settings are present.
func (c *Container) InitializeStores(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Config.Cache.Addr != "" && c.Redis == nil {
		client, err := persistence.NewRedisClient(ctx, c.Config.Cache)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Redis = client
		c.Logger.Info("Redis connection established successfully")
	}
	if c.Config.Snapshot.MongoDBURI != "" && c.Mongo == nil {
		client, err := mongodbpersistence.NewMongoClient(ctx, c.Config.Snapshot.MongoDBURI)
		if err != nil {
			return err
		}
		c.Mongo = client
		c.Logger.Info("MongoDB connection established successfully")
	}
	return nil
}

// Initialize connects the stores and creates the correlation module. On any
// failure every resource opened so far is released before returning.
func (c *Container) Initialize(ctx context.Context) error {
	if err := c.InitializeStores(ctx); err != nil {
		_ = c.Close()
		return err
	}
	if err := c.InitializeCorrelation(); err != nil {
		_ = c.Close()
		return err
	}
	return nil
}

// InitializeCorrelation creates the correlation module on the connected stores.
func (c *Container) InitializeCorrelation() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var snapshotDB *mongo.Database
	if c.Mongo != nil {
		snapshotDB = c.Mongo.Database(c.Config.Snapshot.DatabaseName)
	}
	module, err := correlation.NewCorrelationModule(c.Config, c.Logger, c.Redis, snapshotDB)
	if err != nil {
		return fmt.Errorf("failed to create correlation module: %w", err)
	}
	c.CorrelationModule = module
	return nil
}

// GetCorrelationModule returns the correlation module instance.
func (c *Container) GetCorrelationModule() *correlation.CorrelationModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.CorrelationModule
}

// HealthCheck checks the module and its stores.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.CorrelationModule == nil {
		return fmt.Errorf("correlation module is not initialized")
	}
	return c.CorrelationModule.HealthCheck(ctx)
}

// Cleanup stops the module and closes the connections in reverse order of
// initialization.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.CorrelationModule != nil {
		if err := c.CorrelationModule.Stop(); err != nil {
			errs = append(errs, err)
		}
		c.CorrelationModule = nil
	}
	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to disconnect MongoDB: %w", err))
		}
		c.Mongo = nil
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
		c.Redis = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}

// Close releases every resource with a 30 second timeout.
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Cleanup(ctx); err != nil {
		c.Logger.Warn("Cleanup errors occurred: ", err)
		return err
	}
	return nil
}
