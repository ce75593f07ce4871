package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iloilo-msme/produkta/internal/config"
	"github.com/iloilo-msme/produkta/internal/gateway"
	"github.com/iloilo-msme/produkta/internal/logging"
)

type seedStore interface {
	gateway.Store
	Seed(ctx context.Context, data gateway.FixtureData) error
}

func main() {
	fmt.Println("Seeding ProdukTa development data...")

	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var store seedStore
	switch config.AppConfig.StorageBackend {
	case config.StorageMongo:
		if err := config.InitMongoDB(ctx); err != nil {
			log.Fatalf("Failed to initialize MongoDB: %v", err)
		}
		defer config.CloseMongoDB(context.Background())
		cfg := config.AppConfig
		m := gateway.NewMongo(config.MongoDB, gateway.MongoCollections{
			MSMEs:    cfg.MSMECollection,
			Sectors:  cfg.SectorCollection,
			Admins:   cfg.AdminCollection,
			Counters: cfg.CounterCollection,
		}, logging.Logger)
		if err := m.EnsureIndexes(ctx); err != nil {
			log.Fatalf("Failed to ensure indexes: %v", err)
		}
		store = m
	case config.StorageSQL:
		if err := config.InitSQL(); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer config.CloseSQL()
		s, err := gateway.NewSQL(config.SQL, logging.Logger)
		if err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		store = s
	default:
		log.Fatalf("STORAGE_BACKEND=%q holds no persistent data, use mongo or sql", config.AppConfig.StorageBackend)
	}

	existing, err := store.AllMSMEs(ctx)
	if err != nil {
		log.Fatalf("Failed to count existing MSMEs: %v", err)
	}

	if len(existing) > 0 {
		fmt.Printf("Found %d existing MSMEs. Fixture records with the same ids will be overwritten. Continue? (y/N): ", len(existing))
		var response string
		if _, err := fmt.Scanln(&response); err != nil {
			fmt.Println("Error reading input")
			return
		}
		if response != "y" && response != "Y" {
			fmt.Println("Seeding cancelled")
			return
		}
	}

	data := gateway.Fixtures()
	if err := store.Seed(ctx, data); err != nil {
		log.Fatalf("Failed to seed fixtures: %v", err)
	}

	fmt.Printf("Seeded %d sectors, %d MSMEs and %d admin accounts:\n", len(data.Sectors), len(data.MSMEs), len(data.Admins))
	for _, s := range data.Sectors {
		fmt.Printf("  [%d] %s\n", s.ID, s.Name)
	}
	fmt.Println("Seeding completed successfully")
}
