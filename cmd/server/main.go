package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/auth"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/config"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/events"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/graph"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/logging"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/media"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/middleware"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("info", "console")
		boot.Fatal().Err(err).Msg("load config")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	// ── PostgreSQL (users) ───────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect")
	}
	defer pgPool.Close()
	userStore := store.NewPostgresStore(pgPool, cfg.AdminEmails)
	if err := userStore.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("postgres migrate")
	}

	// ── MongoDB (services) ───────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect")
	}
	defer mongoClient.Disconnect(context.Background())
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatal().Err(err).Msg("mongo ping")
	}
	serviceStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))

	// ── Redis (sessions, subscription fan-out) ───────────────
	rdb, err := store.NewRedisClient(ctx, store.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect")
	}
	defer rdb.Close()
	sessions := auth.NewSessionStore(rdb)
	broker := events.NewRedisBroker(rdb, log)

	// ── MinIO (media host) ───────────────────────────────────
	mediaStore, err := store.NewMinioStore(
		ctx, cfg.MediaEndpoint, cfg.MediaAPIKey, cfg.MediaAPISecret,
		cfg.MediaCloudName, cfg.MediaPublicURL, cfg.MediaUseSSL,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("media host connect")
	}

	// ── Auth ─────────────────────────────────────────────────
	verifier, err := auth.NewVerifier(cfg.AuthTokenSecret, cfg.AuthTokenIssuer)
	if err != nil {
		log.Fatal().Err(err).Msg("token verifier")
	}
	checker := auth.NewChecker(userStore, verifier, sessions)

	// ── GraphQL ──────────────────────────────────────────────
	schema, err := graph.NewSchema(graph.NewResolver(userStore, serviceStore, checker, broker, log))
	if err != nil {
		log.Fatal().Err(err).Msg("graphql schema")
	}

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(checker, userStore, sessions, log)
	gateway := media.NewGateway(mediaStore, media.NewFetcher(nil))
	imageHandler := media.NewHandler(gateway, log)

	srv := newServer(cfg.Port, newRouter(routes{
		log:          log,
		corsOrigins:  cfg.CORSOrigins,
		graphql:      graph.NewHandler(schema),
		auth:         authHandler,
		images:       imageHandler,
		requireAdmin: middleware.RequireAdmin(checker),
	}))

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
