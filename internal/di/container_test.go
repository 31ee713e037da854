package di

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/config"
	"github.com/vinodmerwade/OrgCheck/internal/shared/logger"
)

func TestContainer_Lifecycle(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := config.DefaultConfig()
	cfg.Salesforce.InstanceURL = "https://example.my.salesforce.com"
	cfg.Cache.Addr = mr.Addr()

	c := NewContainer(cfg, logger.NewNopLogger())
	ctx := context.Background()

	assert.Error(t, c.HealthCheck(ctx))

	require.NoError(t, c.InitializeStores(ctx))
	require.NotNil(t, c.Redis)
	assert.Nil(t, c.Mongo)

	require.NoError(t, c.InitializeCorrelation())
	module := c.GetCorrelationModule()
	require.NotNil(t, module)
	assert.NotNil(t, module.Cache)
	assert.Nil(t, module.Snapshots)
	assert.NoError(t, c.HealthCheck(ctx))

	require.NoError(t, c.Close())
	assert.Nil(t, c.GetCorrelationModule())
	assert.Nil(t, c.Redis)
}

func TestContainer_InitializeCorrelationWithoutOrg(t *testing.T) {
	c := NewContainer(nil, logger.NewNopLogger())
	require.NoError(t, c.InitializeStores(context.Background()))
	assert.Error(t, c.InitializeCorrelation())
}

func TestContainer_UnreachableRedis(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cache.Addr = "127.0.0.1:1"

	c := NewContainer(cfg, logger.NewNopLogger())
	assert.Error(t, c.InitializeStores(context.Background()))
}

func TestContainer_InitializeReleasesRedisWhenMongoFails(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := config.DefaultConfig()
	cfg.Salesforce.InstanceURL = "https://example.my.salesforce.com"
	cfg.Cache.Addr = mr.Addr()
	cfg.Snapshot.MongoDBURI = "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200"

	c := NewContainer(cfg, logger.NewNopLogger())
	require.Error(t, c.Initialize(context.Background()))
	assert.Nil(t, c.Redis)
	assert.Nil(t, c.Mongo)
	assert.Nil(t, c.GetCorrelationModule())
}

func TestContainer_InitializeReleasesStoresWhenModuleFails(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := config.DefaultConfig()
	cfg.Cache.Addr = mr.Addr()

	c := NewContainer(cfg, logger.NewNopLogger())
	require.Error(t, c.Initialize(context.Background()))
	assert.Nil(t, c.Redis)
}
