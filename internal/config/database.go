package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iloilo-msme/produkta/internal/logging"
	"github.com/iloilo-msme/produkta/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	// MongoDB database handle, set by InitMongoDB
	MongoDB *mongo.Database
	// Redis client, set by InitRedis; nil when Redis is not configured
	Redis *redisclient.Client
	// SQL database handle, set by InitSQL
	SQL *gorm.DB

	mongoClient *mongo.Client
)

// InitMongoDB initializes the MongoDB connection
func InitMongoDB(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(AppConfig.MongoURI).
		SetMonitor(otelmongo.NewMonitor()).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	mongoClient = client
	MongoDB = client.Database(AppConfig.MongoDatabase)

	logging.Logger.Info("connected to MongoDB",
		zap.String("uri", maskMongoURI(AppConfig.MongoURI)),
		zap.String("database", AppConfig.MongoDatabase),
	)
	return nil
}

// CloseMongoDB disconnects the MongoDB client
func CloseMongoDB(ctx context.Context) {
	if mongoClient == nil {
		return
	}
	if err := mongoClient.Disconnect(ctx); err != nil {
		logging.Logger.Error("failed to disconnect MongoDB", zap.Error(err))
	}
}

// InitRedis initializes the Redis connection. An empty REDIS_URI leaves
// Redis disabled and config.Redis nil.
func InitRedis(ctx context.Context) error {
	if AppConfig.RedisURI == "" {
		logging.Logger.Info("redis not configured, caching disabled")
		return nil
	}

	addr := strings.TrimPrefix(AppConfig.RedisURI, "redis://")
	redisClient := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     AppConfig.RedisPassword,
		DB:           AppConfig.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	client := redisclient.NewClient(redisClient)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Logger.Error("failed to connect to Redis",
			zap.String("uri", addr),
			zap.Error(err))
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	Redis = client
	logging.Logger.Info("connected to Redis", zap.String("uri", addr))
	return nil
}

// InitSQL opens the relational database through gorm using the Postgres driver
func InitSQL() error {
	db, err := gorm.Open(postgres.Open(AppConfig.DatabaseDSN), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	sqlDB.SetMaxOpenConns(AppConfig.DatabaseMaxOpenConns)
	sqlDB.SetMaxIdleConns(AppConfig.DatabaseMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	SQL = db
	logging.Logger.Info("connected to relational database")
	return nil
}

// CloseRedis closes the Redis connection pool
func CloseRedis() {
	if Redis == nil {
		return
	}
	if err := Redis.Close(); err != nil {
		logging.Logger.Error("failed to close Redis", zap.Error(err))
	}
	Redis = nil
}

// CloseSQL closes the relational database connection
func CloseSQL() {
	if SQL == nil {
		return
	}
	sqlDB, err := SQL.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logging.Logger.Error("failed to close database", zap.Error(err))
	}
}

// maskMongoURI masks credentials in a MongoDB URI
func maskMongoURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	if at == -1 {
		return uri
	}
	scheme := "mongodb://"
	if strings.HasPrefix(uri, "mongodb+srv://") {
		scheme = "mongodb+srv://"
	}
	return scheme + "****:****@" + uri[at+1:]
}
