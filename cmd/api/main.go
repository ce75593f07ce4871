package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/iloilo-msme/produkta/internal/config"
	"github.com/iloilo-msme/produkta/internal/export"
	"github.com/iloilo-msme/produkta/internal/gateway"
	"github.com/iloilo-msme/produkta/internal/handlers"
	"github.com/iloilo-msme/produkta/internal/logging"
	"github.com/iloilo-msme/produkta/internal/middleware"
	"github.com/iloilo-msme/produkta/internal/observability"
	"github.com/iloilo-msme/produkta/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/iloilo-msme/produkta/docs"
)

// @title           ProdukTa API
// @version         1.0
// @description     Directory and administration API for the Micro, Small and Medium Enterprises of the province of Iloilo. Visitors browse, filter, search and export the directory; sector admins and super admins manage records, sectors and admin accounts.

// @contact.name   Provincial MSME Office
// @contact.email  produkta@iloilo.gov.ph

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

// @tag.name msmes
// @tag.description Directory listing, details and analytics

// @tag.name sectors
// @tag.description Business sectors

// @tag.name export
// @tag.description CSV and PDF exports

// @tag.name admin
// @tag.description Dashboard, sector and admin account management

// @tag.name health
// @tag.description Health check operations

// seeder is implemented by stores that can be loaded with the development data set
type seeder interface {
	Seed(ctx context.Context, data gateway.FixtureData) error
}

func main() {
	// Initialize logger first
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = logging.Logger.Sync() }()

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}

	// Initialize observability
	observability.InitTracer()
	defer observability.ShutdownTracer()

	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		logging.Logger.Fatal("failed to open store",
			zap.String("backend", config.AppConfig.StorageBackend),
			zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Logger.Error("failed to close store", zap.Error(err))
		}
		config.CloseMongoDB(context.Background())
		config.CloseSQL()
		config.CloseRedis()
	}()

	services.InitServices(store, export.PDFOptions{
		Title:    config.AppConfig.ExportTitle,
		LogoPath: config.AppConfig.ExportLogoPath,
	}, logging.Logger)

	// Set Gin mode
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Export-Records", "X-Request-ID"}
	if len(config.AppConfig.CORSAllowedOrigins) == 0 || config.AppConfig.CORSAllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = config.AppConfig.CORSAllowedOrigins
	}

	// Create router with middleware
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		middleware.RequestTiming(),
		cors.New(corsConfig),
	)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	handlers.RegisterRoutes(router)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create server with timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.AppConfig.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", config.AppConfig.Port),
			zap.String("environment", config.AppConfig.Environment),
			zap.String("backend", config.AppConfig.StorageBackend),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logging.Logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logging.Logger.Info("server exited gracefully")
}

// openStore connects the configured backend and wraps it with the Redis cache when one is configured
func openStore(ctx context.Context) (gateway.Store, error) {
	cfg := config.AppConfig

	var store gateway.Store
	switch cfg.StorageBackend {
	case config.StorageMongo:
		if err := config.InitMongoDB(ctx); err != nil {
			return nil, err
		}
		m := gateway.NewMongo(config.MongoDB, gateway.MongoCollections{
			MSMEs:    cfg.MSMECollection,
			Sectors:  cfg.SectorCollection,
			Admins:   cfg.AdminCollection,
			Counters: cfg.CounterCollection,
		}, logging.Logger)
		if err := m.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure indexes: %w", err)
		}
		store = m
	case config.StorageSQL:
		if err := config.InitSQL(); err != nil {
			return nil, err
		}
		s, err := gateway.NewSQL(config.SQL, logging.Logger)
		if err != nil {
			return nil, err
		}
		store = s
	default:
		logging.Logger.Info("using in-memory store with development fixtures")
		store = gateway.NewMemoryWithFixtures()
	}

	if s, ok := store.(seeder); ok && cfg.SeedFixtures {
		if err := seedIfEmpty(ctx, store, s); err != nil {
			return nil, err
		}
	}

	if err := config.InitRedis(ctx); err != nil {
		return nil, err
	}
	if config.Redis != nil {
		store = gateway.NewCached(store, config.Redis, cfg.RedisTTL, cfg.VisitDedupeWindow, logging.Logger)
	}
	return store, nil
}

func seedIfEmpty(ctx context.Context, store gateway.Store, s seeder) error {
	sectors, err := store.ListSectors(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect store: %w", err)
	}
	if len(sectors) > 0 {
		logging.Logger.Info("store already holds data, skipping fixtures", zap.Int("sectors", len(sectors)))
		return nil
	}
	if err := s.Seed(ctx, gateway.Fixtures()); err != nil {
		return fmt.Errorf("failed to seed fixtures: %w", err)
	}
	logging.Logger.Info("seeded development fixtures")
	return nil
}
