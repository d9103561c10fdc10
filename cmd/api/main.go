// Package main is the entry point for the Foodgram API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/foodgram/backend/internal/auth"
	"github.com/foodgram/backend/internal/authz"
	"github.com/foodgram/backend/internal/config"
	"github.com/foodgram/backend/internal/handler"
	"github.com/foodgram/backend/internal/imagestore"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/repo"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the ping below does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		if err := migrate(context.Background(), pool); err != nil {
			slog.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}

	// --- Redis (optional) -------------------------------------------------
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		slog.Info("redis connection established")
	}

	// --- Auth -------------------------------------------------------------
	var denylist auth.Denylist
	if rdb != nil {
		denylist = auth.NewRedisDenylist(rdb)
	}
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, denylist)

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		slog.Error("failed to load authorization policy", "error", err)
		os.Exit(1)
	}

	// --- Image store ------------------------------------------------------
	images, mediaDir, err := newImageStore(cfg)
	if err != nil {
		slog.Error("failed to configure image store", "error", err)
		os.Exit(1)
	}

	// --- Services ---------------------------------------------------------
	userRepo := repo.NewUserRepo(pool)
	recipeRepo := repo.NewRecipeRepo(pool)

	deps := handler.Deps{
		Users:         service.NewUserService(userRepo, tokens),
		Tokens:        tokens,
		Catalog:       service.NewCatalogService(repo.NewTagRepo(pool), repo.NewIngredientRepo(pool), enforcer),
		Recipes:       service.NewRecipeService(recipeRepo, images, enforcer),
		Ledger:        service.NewLedgerService(repo.NewLedgerRepo(pool), recipeRepo),
		Shopping:      service.NewShoppingService(repo.NewShoppingRepo(pool)),
		Subscriptions: service.NewSubscriptionService(repo.NewSubscriptionRepo(pool), userRepo),
		Authenticate:  middleware.Authenticate(tokens),
		MediaDir:      mediaDir,
	}
	if rdb != nil && cfg.RecipeCreateLimit > 0 {
		deps.RecipeQuota = middleware.NewQuotaLimiter(rdb, "recipe-create", cfg.RecipeCreateLimit, time.Hour).Middleware
	}

	// --- Router -----------------------------------------------------------
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger and Metrics record one entry per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewMetrics())
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Mount("/", handler.NewServer(deps).Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// WriteTimeout covers an S3 upload inside recipe create/update.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.S3Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies pending goose migrations through a database/sql view of the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	for _, res := range results {
		slog.Info("migration applied", "version", res.Source.Version, "duration", res.Duration)
	}
	return nil
}

// newImageStore picks S3 when a bucket is configured, else the local media
// directory. The returned dir is non-empty only for local storage.
func newImageStore(cfg config.Config) (imagestore.Store, string, error) {
	if cfg.S3Bucket != "" {
		s, err := imagestore.NewS3Store(imagestore.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			KeyID:     cfg.S3KeyID,
			AccessKey: cfg.S3AccessKey,
			PublicURL: cfg.S3PublicURL,
			Timeout:   cfg.S3Timeout,
		})
		if err != nil {
			return nil, "", err
		}
		slog.Info("image store: s3", "bucket", cfg.S3Bucket)
		return s, "", nil
	}

	s, err := imagestore.NewFSStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		return nil, "", err
	}
	slog.Info("image store: filesystem", "dir", s.Dir())
	return s, s.Dir(), nil
}
