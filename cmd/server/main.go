package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/cliplink/cliplink/config"
	appmodel "github.com/cliplink/cliplink/internal/app/model"
	apprepository "github.com/cliplink/cliplink/internal/app/repository"
	appserver "github.com/cliplink/cliplink/internal/app/server"
	appservice "github.com/cliplink/cliplink/internal/app/service"
	"github.com/cliplink/cliplink/internal/infra/logger"
	infraNATS "github.com/cliplink/cliplink/internal/infra/nats"
	infraPostgres "github.com/cliplink/cliplink/internal/infra/postgres"
	infraPrometheus "github.com/cliplink/cliplink/internal/infra/prometheus"
	"go.uber.org/zap"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
	defaultHTTPPort   = 8080
)

func main() {
	ctx := context.Background()

	isDev := os.Getenv("APP_ENV") != "production"
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	if cfg.Auth.AccessSecret == "" || cfg.Auth.RefreshSecret == "" {
		log.Fatal("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be set")
	}

	log.Info("Configuration loaded successfully",
		zap.String("postgres_user", cfg.Postgres.User),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("postgres_db", cfg.Postgres.Database),
		zap.String("nats_host", cfg.NATS.Host),
		zap.Int("nats_port", cfg.NATS.Port),
	)

	gormDB, err := infraPostgres.NewGorm(cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to open GORM connection", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := infraPostgres.AutoMigrate(ctx, gormDB,
		&appmodel.User{}, &appmodel.URL{}, &appmodel.Click{}); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()

	log.Info("Connected to Postgres successfully")

	natsConn, js, err := infraNATS.Connect(cfg.NATS)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsConn.Drain()
	log.Info("Connected to NATS successfully", zap.Bool("jetstream_ready", js != nil))

	if !isDev {
		promServer := infraPrometheus.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server",
				zap.Int("port", cfg.Prometheus.Port))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	} else {
		log.Info("Skipping Prometheus metrics server in development mode")
	}

	userRepo := apprepository.NewUserRepository(gormDB)
	urlRepo := apprepository.NewURLRepository(gormDB)
	clickRepo := apprepository.NewClickRepository(gormDB)

	filter, err := appservice.NewShortURLFilter(ctx, urlRepo)
	if err != nil {
		log.Fatal("Failed to seed short url filter", zap.Error(err))
	}

	authService := appservice.NewAuthService(userRepo, appservice.TokenConfig{
		AccessSecret:  []byte(cfg.Auth.AccessSecret),
		AccessTTL:     parseTTL(log, "auth.access_ttl", cfg.Auth.AccessTTL, defaultAccessTTL),
		RefreshSecret: []byte(cfg.Auth.RefreshSecret),
		RefreshTTL:    parseTTL(log, "auth.refresh_ttl", cfg.Auth.RefreshTTL, defaultRefreshTTL),
	}, log)
	urlService := appservice.NewURLService(urlRepo, clickRepo, filter, log)
	clickService := appservice.NewClickService(clickRepo, urlRepo, log)

	visitPublisher := appservice.NewVisitPublisher(js)
	visitConsumer := appservice.NewVisitConsumer(js, log, clickRepo, urlRepo)
	if err := visitConsumer.Start(); err != nil {
		log.Fatal("Failed to start visit consumer", zap.Error(err))
	}
	log.Info("Visit consumer started")

	srv := appserver.New(appserver.Dependencies{
		Logger:       log,
		Postgres:     pool,
		NATS:         natsConn,
		JetStream:    js,
		Auth:         authService,
		URLs:         urlService,
		Clicks:       clickService,
		Visits:       visitPublisher,
		CookieSecure: cfg.Auth.CookieSecure || !isDev,
		AllowOrigin:  cfg.Server.AllowOrigin,
	})

	port := cfg.Server.Port
	if port == 0 {
		port = defaultHTTPPort
	}
	if err := srv.Listen(fmt.Sprintf(":%d", port)); err != nil {
		log.Fatal("Fiber server exited", zap.Error(err))
	}
}

func parseTTL(log *zap.Logger, key, value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Warn("Invalid duration, using default",
			zap.String("key", key),
			zap.String("value", value),
			zap.Duration("default", fallback))
		return fallback
	}
	return d
}
