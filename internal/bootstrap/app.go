package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fastcart-api/internal/app"
	"fastcart-api/internal/cache"
	"fastcart-api/internal/config"
	"fastcart-api/internal/logging"
	cloudinaryClient "fastcart-api/internal/platform/cloudinary"
	firestoreClient "fastcart-api/internal/platform/firestore"
	mysqlClient "fastcart-api/internal/platform/mysql"
	rabbitmqClient "fastcart-api/internal/platform/rabbitmq"
	redisClient "fastcart-api/internal/platform/redis"
	s3Client "fastcart-api/internal/platform/s3"
	"fastcart-api/internal/repository"
	"fastcart-api/internal/worker"
)

// App holds the configured stores and clients. Cache and Cleanup stay nil
// when their backing service is not enabled.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Users      app.UserStore
	Categories app.CategoryStore
	Media      app.MediaStore
	Cache      app.CategoryCache
	Cleanup    app.MediaCleanupPublisher

	MySQL         *gorm.DB
	Firestore     *firestore.Client
	Redis         *redis.Client
	MQConn        *amqp.Connection
	CleanupWorker *worker.MediaCleanupWorker

	StartedAt time.Time
}

// HealthCheck probes a single dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.App.LogLevel, cfg.App.LogFormat).
		With("app", cfg.App.Name, "env", cfg.App.Env)
	slog.SetDefault(logger)

	a := &App{
		Config:    cfg,
		Logger:    logger,
		StartedAt: time.Now(),
	}
	if err := a.init(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	switch cfg.Storage.Driver {
	case config.StorageFirestore:
		client, err := firestoreClient.New(ctx, cfg.Firestore)
		if err != nil {
			return err
		}
		a.Firestore = client
		a.Users = repository.NewFirestoreUserRepository(client)
		a.Categories = repository.NewFirestoreCategoryRepository(client)
	default:
		db, err := mysqlClient.New(ctx, cfg.MySQLDSN(), cfg.App.GinMode == "debug")
		if err != nil {
			return err
		}
		a.MySQL = db
		a.Users = repository.NewUserRepository(db)
		a.Categories = repository.NewCategoryRepository(db)
	}
	a.Logger.Info("storage ready", "driver", cfg.Storage.Driver)

	switch cfg.Media.Provider {
	case config.MediaS3:
		media, err := s3Client.New(cfg.S3, cfg.Media.Folder)
		if err != nil {
			return err
		}
		a.Media = media
	default:
		media, err := cloudinaryClient.New(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Media.Folder)
		if err != nil {
			return err
		}
		a.Media = media
	}
	a.Logger.Info("media host ready", "provider", cfg.Media.Provider, "folder", cfg.Media.Folder)

	if cfg.Redis.Enabled {
		client, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		a.Redis = client
		a.Cache = cache.NewCategoryCache(client, time.Duration(cfg.Redis.CategoryTTLSeconds)*time.Second)
		a.Logger.Info("category cache enabled", "addr", cfg.Redis.Addr)
	}

	if cfg.Media.AsyncDelete {
		conn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.App.Name)
		if err != nil {
			return err
		}
		a.MQConn = conn
		a.Cleanup = rabbitmqClient.NewMediaCleanupPublisher(conn, cfg.RabbitMQ.MediaCleanupQueue)

		a.CleanupWorker = worker.NewMediaCleanupWorker(
			conn,
			a.Media,
			cfg.RabbitMQ.MediaCleanupQueue,
			time.Duration(cfg.Media.TimeoutSeconds)*time.Second,
			a.Logger,
		)
		if err := a.CleanupWorker.Start(ctx); err != nil {
			return fmt.Errorf("start media cleanup worker failed: %w", err)
		}
	}
	return nil
}

// HealthChecks lists probes for the dependencies that are actually in use.
func (a *App) HealthChecks() []HealthCheck {
	var checks []HealthCheck
	if a.MySQL != nil {
		db := a.MySQL
		checks = append(checks, HealthCheck{Name: "mysql", Check: func(ctx context.Context) error {
			return mysqlClient.Ping(ctx, db)
		}})
	}
	if a.Firestore != nil {
		client := a.Firestore
		checks = append(checks, HealthCheck{Name: "firestore", Check: func(ctx context.Context) error {
			return firestoreClient.Ping(ctx, client)
		}})
	}
	if a.Redis != nil {
		client := a.Redis
		checks = append(checks, HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}})
	}
	if a.MQConn != nil {
		conn := a.MQConn
		checks = append(checks, HealthCheck{Name: "rabbitmq", Check: func(context.Context) error {
			if conn.IsClosed() {
				return errors.New("connection closed")
			}
			return nil
		}})
	}
	return checks
}

func (a *App) Close() error {
	var errs []error
	if a.CleanupWorker != nil {
		a.CleanupWorker.Close()
	}
	if a.MQConn != nil && !a.MQConn.IsClosed() {
		if err := a.MQConn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close rabbitmq: %w", err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.Firestore != nil {
		if err := a.Firestore.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close firestore: %w", err))
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close mysql: %w", err))
			}
		}
	}
	return errors.Join(errs...)
}
