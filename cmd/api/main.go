package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jeremyjsx/quill/internal/config"
	"github.com/jeremyjsx/quill/internal/events"
	"github.com/jeremyjsx/quill/internal/handlers"
	"github.com/jeremyjsx/quill/internal/logger"
	"github.com/jeremyjsx/quill/internal/middleware"
	"github.com/jeremyjsx/quill/internal/posts"
	"github.com/jeremyjsx/quill/internal/routes"
	"github.com/jeremyjsx/quill/internal/storage"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type closer func(ctx context.Context) error

func main() {
	cfg := config.Load(logger.New("info"))
	log := logger.New(cfg.LogLevel).With().Str("service", "quill-api").Logger()

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("api stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	repo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing store failed")
		}
	}()

	opts := []posts.Option{posts.WithLogger(log)}
	health := &handlers.HealthDeps{Store: repo, RabbitMQURL: cfg.RabbitMQURL}

	if cfg.RabbitMQURL != "" {
		pub, err := events.NewRabbitMQPublisher(cfg.RabbitMQURL)
		if err != nil {
			return fmt.Errorf("rabbitmq: %w", err)
		}
		defer pub.Close()
		opts = append(opts, posts.WithPublisher(pub))
		log.Info().Str("exchange", events.ExchangeName).Msg("publishing events")
	}

	if cfg.S3Bucket != "" {
		client, err := storage.NewS3Client(ctx, cfg.AWSRegion, cfg.S3Endpoint)
		if err != nil {
			return fmt.Errorf("s3: %w", err)
		}
		s3Store := storage.NewS3Storage(client, cfg.S3Bucket)
		archiver, err := storage.NewSnapshotArchiver(s3Store)
		if err != nil {
			return fmt.Errorf("snapshot archiver: %w", err)
		}
		health.Storage = s3Store
		opts = append(opts, posts.WithArchiver(archiver))
		log.Info().Str("bucket", cfg.S3Bucket).Msg("archiving published snapshots")
	}

	svc := posts.NewService(repo, opts...)

	mux := http.NewServeMux()
	handlers.NewPostsHandler(svc, log).Register(mux, cfg.APIKey)
	mux.HandleFunc("GET "+routes.Health, handlers.Health(health))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.Chain(mux, middleware.RequestID, middleware.Logging(log)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (posts.Repository, closer, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongodb: %w", err)
		}
		repo := posts.NewMongoRepository(client.Database(cfg.MongoDatabase))
		if err := repo.Ping(connectCtx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, fmt.Errorf("ping mongodb: %w", err)
		}
		if err := repo.EnsureIndexes(connectCtx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, fmt.Errorf("mongodb indexes: %w", err)
		}
		log.Info().Str("database", cfg.MongoDatabase).Msg("connected to mongodb")
		return repo, client.Disconnect, nil

	case config.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, nil, errors.New("DATABASE_URL is required for the postgres store")
		}
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		repo := posts.NewPostgresRepository(db)
		if err := repo.Ping(connectCtx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := repo.Migrate(connectCtx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		log.Info().Msg("connected to postgres")
		return repo, func(context.Context) error { return db.Close() }, nil

	case config.DriverSQLite:
		repo, err := posts.OpenSQLite(connectCtx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite store")
		return repo, func(context.Context) error { return repo.Close() }, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory store, posts are lost on restart")
		return posts.NewMemoryRepository(), func(context.Context) error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}
