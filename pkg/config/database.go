package config

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverFile     = "file"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// OpenStore opens the record store selected by cfg.StoreDriver
func OpenStore(ctx context.Context, cfg *Config, log zerolog.Logger) (*repositories.Store, error) {
	switch cfg.StoreDriver {
	case DriverFile:
		store, err := repositories.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", DriverFile).Str("dir", cfg.DataDir).Msg("store opened")
		return store, nil

	case DriverMemory:
		log.Warn().Str("driver", DriverMemory).Msg("store opened, data will not survive a restart")
		return repositories.NewMemoryStore(), nil

	case DriverMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI environment variable not set")
		}
		client, err := initMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		store := repositories.NewMongoStore(client.Database(cfg.MongoDatabase))
		store.OnClose(func(ctx context.Context) error {
			if err := client.Disconnect(ctx); err != nil {
				return fmt.Errorf("closing MongoDB connection: %w", err)
			}
			log.Info().Msg("MongoDB connection closed.")
			return nil
		})
		log.Info().Str("driver", DriverMongo).Str("database", cfg.MongoDatabase).Msg("store opened")
		return store, nil

	case DriverPostgres:
		if cfg.PostgresUrl == "" {
			return nil, fmt.Errorf("POSTGRES_URL environment variable not set")
		}
		db, err := initPostgres(cfg.PostgresUrl, cfg.Env)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		store, err := repositories.NewPostgresStore(db)
		if err != nil {
			return nil, err
		}
		store.OnClose(func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("getting SQL DB from GORM: %w", err)
			}
			if err := sqlDB.Close(); err != nil {
				return fmt.Errorf("closing PostgreSQL connection: %w", err)
			}
			log.Info().Msg("PostgreSQL connection closed.")
			return nil
		})
		log.Info().Str("driver", DriverPostgres).Msg("store opened")
		return store, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

// initPostgres initializes the PostgreSQL database connection using GORM
func initPostgres(connStr, env string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{}
	if env != "development" {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}
	db, err := gorm.Open(postgres.Open(connStr), gormConfig)
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// initMongo initializes the MongoDB connection
func initMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}
