package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"github.com/Jalez/resident-committee-portal-sub005/src/helper/env"
	"github.com/Jalez/resident-committee-portal-sub005/src/infra/kafka"
	"github.com/Jalez/resident-committee-portal-sub005/src/infra/postgres"
	"github.com/Jalez/resident-committee-portal-sub005/src/infra/redis"
	"github.com/Jalez/resident-committee-portal-sub005/src/repositories"
	"github.com/Jalez/resident-committee-portal-sub005/src/server"
	"github.com/Jalez/resident-committee-portal-sub005/src/services/events"
	"github.com/Jalez/resident-committee-portal-sub005/src/services/relationships"
)

func main() {
	log.SetOutput(os.Stdout)
	log.Println("Starting committee portal API with Uber Fx...")

	app := fx.New(
		// Providers
		fx.Provide(
			newLogger,
			newSQLClient,
			newRedisClient,
			newRelationshipRepository,
			newRecordRepository,
			newCachedRecordRepository,
			newEventPublisher,
			newRelationshipService,
			newServer,
		),

		// Invocations
		fx.Invoke(registerServerHooks),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	<-app.Done()
}

func newLogger() *slog.Logger {
	logLevel := env.GetString("LOG_LEVEL", "info")
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func newSQLClient() (*pgxpool.Pool, error) {
	dbHost := env.MustGetString("DB_HOST")
	dbPort := env.GetString("DB_PORT", "5432")
	dbname := env.MustGetString("DB_NAME")
	dbUser := env.MustGetString("DB_USER")
	dbPassword := env.MustGetString("DB_PASSWORD")
	maxConnections := env.GetInt("DB_MAX_POOL_CONNECTIONS", 25)

	return postgres.NewPostgresClient(dbHost, dbPort, dbname, dbUser, dbPassword, maxConnections)
}

// newRedisClient returns nil when no cache is configured; the cached
// repository falls back to direct Postgres reads.
func newRedisClient() *redis.RedisClient {
	addr := env.GetString("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, receipt cache disabled")
		return nil
	}

	poolSize := env.GetInt("REDIS_POOL_SIZE", 10)
	ttlSeconds := env.GetInt("REDIS_TTL_SECONDS", 900)

	return redis.NewRedisClient(addr, poolSize, time.Duration(ttlSeconds)*time.Second)
}

func newRelationshipRepository(pool *pgxpool.Pool) *repositories.RelationshipRepository {
	return repositories.NewRelationshipRepository(pool)
}

func newRecordRepository(pool *pgxpool.Pool) *repositories.RecordRepository {
	return repositories.NewRecordRepository(pool)
}

func newCachedRecordRepository(recordRepository *repositories.RecordRepository, redisClient *redis.RedisClient) *repositories.CachedRecordRepository {
	return repositories.NewCachedRecordRepository(recordRepository, redisClient)
}

// newEventPublisher returns a nil publisher when no broker is configured;
// the service then skips eventing entirely.
func newEventPublisher(logger *slog.Logger) (relationships.EventPublisher, error) {
	brokers := env.GetString("KAFKA_BROKERS")
	if brokers == "" {
		log.Println("KAFKA_BROKERS not set, relationship events disabled")
		return nil, nil
	}

	kafkaClient, err := kafka.NewKafkaClient(brokers)
	if err != nil {
		return nil, err
	}

	topic := env.GetString("KAFKA_RELATIONSHIP_TOPIC", "portal.relationships")
	return events.NewRelationshipEventPublisher(logger, kafkaClient, topic), nil
}

func newRelationshipService(
	logger *slog.Logger,
	relationshipRepository *repositories.RelationshipRepository,
	cachedRecordRepository *repositories.CachedRecordRepository,
	eventPublisher relationships.EventPublisher,
) *relationships.RelationshipService {
	return relationships.NewRelationshipService(
		logger,
		relationshipRepository,
		cachedRecordRepository,
		cachedRecordRepository,
		eventPublisher,
	)
}

func newServer(
	logger *slog.Logger,
	relationshipService *relationships.RelationshipService,
	cachedRecordRepository *repositories.CachedRecordRepository,
) *server.Server {
	port := env.GetInt("SERVER_PORT", 8888)

	return server.NewServer(logger, port, relationshipService, cachedRecordRepository)
}

func registerServerHooks(lc fx.Lifecycle, srv *server.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Server failed: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			log.Println("Shutting down server...")
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Server forced to shutdown: %v", err)
				return err
			}
			log.Println("Server exited gracefully")
			return nil
		},
	})
}
