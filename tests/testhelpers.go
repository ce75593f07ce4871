package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/iloilo-msme/produkta/internal/config"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TestContainers holds references to test containers
type TestContainers struct {
	MongoContainer *mongodb.MongoDBContainer
	RedisContainer *redis.RedisContainer
	MongoDB        *mongo.Database
	Cleanup        func()
}

// SetupTestContainers starts MongoDB and Redis containers and points config.AppConfig at them.
// The test is skipped when no container runtime is reachable.
func SetupTestContainers(t *testing.T) *TestContainers {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx,
		"mongo:7.0",
		mongodb.WithUsername("root"),
		mongodb.WithPassword("password"),
	)
	require.NoError(t, err, "Failed to start MongoDB container")

	redisContainer, err := redis.Run(ctx,
		"redis:7-alpine",
	)
	require.NoError(t, err, "Failed to start Redis container")

	mongoURI, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err, "Failed to get MongoDB connection string")

	redisURI, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err, "Failed to get Redis connection string")

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	require.NoError(t, err, "Failed to connect to MongoDB")
	require.NoError(t, mongoClient.Ping(ctx, nil), "Failed to ping MongoDB")

	database := mongoClient.Database("produkta_test")

	if config.AppConfig == nil {
		config.AppConfig = &config.Config{}
	}
	config.AppConfig.StorageBackend = config.StorageMongo
	config.AppConfig.MongoURI = mongoURI
	config.AppConfig.MongoDatabase = "produkta_test"
	config.AppConfig.MSMECollection = "msmes"
	config.AppConfig.SectorCollection = "sectors"
	config.AppConfig.AdminCollection = "admins"
	config.AppConfig.CounterCollection = "counters"
	config.AppConfig.RedisURI = redisURI
	config.AppConfig.RedisTTL = time.Minute
	config.AppConfig.VisitDedupeWindow = 0
	config.AppConfig.ExportTitle = "ProdukTa"

	config.MongoDB = database

	cleanup := func() {
		ctx := context.Background()
		config.CloseRedis()
		_ = mongoClient.Disconnect(ctx)
		_ = mongoContainer.Terminate(ctx)
		_ = redisContainer.Terminate(ctx)
	}

	return &TestContainers{
		MongoContainer: mongoContainer,
		RedisContainer: redisContainer,
		MongoDB:        database,
		Cleanup:        cleanup,
	}
}

// CleanupDatabase drops all collections in the test database
func CleanupDatabase(t *testing.T, db *mongo.Database) {
	ctx := context.Background()
	collections, err := db.ListCollectionNames(ctx, map[string]interface{}{})
	require.NoError(t, err, "Failed to list collections")

	for _, collection := range collections {
		err := db.Collection(collection).Drop(ctx)
		require.NoError(t, err, fmt.Sprintf("Failed to drop collection %s", collection))
	}
}
