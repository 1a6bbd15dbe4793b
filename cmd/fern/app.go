package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/internal/handlers"
	"github.com/Ramsey-B/fern/internal/services/configdefinition"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/health"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/repositories"
	"github.com/Ramsey-B/fern/pkg/startup"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

type app struct {
	cfg      config.Config
	logger   ectologger.Logger
	tracer   *sdktrace.TracerProvider
	db       *sqlx.DB
	redis    *redis.Client
	producer *kafka.Producer
	checker  *health.Checker
	server   *echo.Echo
}

func (a *app) run(ctx context.Context) error {
	s := startup.NewStartup(a.logger, a.cfg.StartupMaxAttempts)
	s.AddDependency(startup.Dependency{Name: "tracing", StartFunc: a.startTracing, StopFunc: a.stopTracing})
	s.AddDependency(startup.Dependency{Name: "database", StartFunc: a.startDatabase, StopFunc: a.stopDatabase})
	s.AddDependency(startup.Dependency{Name: "redis", StartFunc: a.startRedis, StopFunc: a.stopRedis})
	s.AddDependency(startup.Dependency{Name: "kafka", StartFunc: a.startKafka, StopFunc: a.stopKafka})
	s.AddDependency(startup.Dependency{
		Name:      "http",
		Requires:  []string{"tracing", "database", "redis", "kafka"},
		StartFunc: a.startHTTP,
		StopFunc:  a.stopHTTP,
	})

	if err := s.Start(ctx); err != nil {
		return err
	}
	a.checker.SetReady(true)
	a.logger.Infof("%s is ready on port %d", a.cfg.AppName, a.cfg.Port)

	<-ctx.Done()
	a.logger.Info("Shutting down")
	a.checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	return s.Stop(shutdownCtx)
}

func (a *app) startTracing(ctx context.Context) error {
	tcfg := tracing.Config{ServiceName: a.cfg.AppName}
	if a.cfg.OTLPEnabled {
		tcfg.OTLPEndpoint = a.cfg.OTLPEndpoint
		tcfg.OTLPProtocol = a.cfg.OTLPProtocol
		tcfg.Insecure = a.cfg.OTLPInsecure
	}
	tp, err := tracing.NewProvider(ctx, tcfg)
	if err != nil {
		return err
	}
	a.tracer = tp
	return nil
}

func (a *app) stopTracing(ctx context.Context) error {
	if a.tracer == nil {
		return nil
	}
	return a.tracer.Shutdown(ctx)
}

func (a *app) startDatabase(ctx context.Context) error {
	if a.cfg.DatabaseHost == "" {
		a.logger.Warn("DB_HOST is not set, using the in-memory config store")
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, a.cfg.DatabaseDriver, a.cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(a.cfg.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(a.cfg.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(a.cfg.DatabaseConnMaxLifetime)

	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	migrations := database.NewMigrationService(a.logger, &database.MigrationConfig{
		MigrationFolderPath: a.cfg.DatabaseMigrationFolderPath,
		Version:             uint(a.cfg.DatabaseMigrationVersion),
		Force:               a.cfg.DatabaseMigrationForce,
	})
	if err := migrations.Migrate(a.cfg.DatabaseName, driver); err != nil {
		_ = db.Close()
		return err
	}

	a.db = db
	return nil
}

func (a *app) stopDatabase(_ context.Context) error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *app) startRedis(ctx context.Context) error {
	if a.cfg.RedisHost == "" {
		a.logger.Info("REDIS_HOST is not set, config locks are local to this instance")
		return nil
	}

	client, err := redis.NewClient(ctx, redis.Config{
		Host:     a.cfg.RedisHost,
		Port:     a.cfg.RedisPort,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
	}, a.logger)
	if err != nil {
		return err
	}
	a.redis = client
	return nil
}

func (a *app) stopRedis(_ context.Context) error {
	if a.redis == nil {
		return nil
	}
	return a.redis.Close()
}

func (a *app) startKafka(_ context.Context) error {
	if strings.TrimSpace(a.cfg.KafkaBrokers) == "" {
		a.logger.Info("KAFKA_BROKERS is not set, config events are disabled")
		return nil
	}
	a.producer = kafka.NewProducer(kafka.ParseConfig(a.cfg.KafkaBrokers, a.cfg.KafkaConfigTopic), a.logger)
	return nil
}

func (a *app) stopKafka(_ context.Context) error {
	if a.producer == nil {
		return nil
	}
	return a.producer.Close()
}

// newService builds the config service over Postgres when connected and the in-memory store otherwise.
func (a *app) newService() (*configdefinition.Service, health.DBPinger, error) {
	var store repositories.ConfigStore
	var dbPinger health.DBPinger
	if a.db != nil {
		db := database.NewDatabaseInstance(a.db, a.logger)
		store = repositories.NewPostgresConfigStore(db, a.logger)
		dbPinger = db
	} else {
		store = repositories.NewMemoryConfigStore(a.logger)
		dbPinger = memoryPinger{}
	}

	opts := configdefinition.Options{
		CacheSize:  a.cfg.VersionCacheSize,
		MaxRetries: a.cfg.SaveMaxRetries,
	}
	if a.redis != nil {
		opts.Locker = redis.NewLocker(a.redis, "fern:lock:", a.cfg.RedisLockTTL, a.cfg.RedisLockWait)
	}
	if a.producer != nil {
		opts.Publisher = a.producer
	}
	svc, err := configdefinition.NewService(store, a.logger, opts)
	if err != nil {
		return nil, nil, err
	}
	return svc, dbPinger, nil
}

func (a *app) startHTTP(_ context.Context) error {
	svc, dbPinger, err := a.newService()
	if err != nil {
		return err
	}

	a.checker = health.NewChecker(dbPinger, a.cfg.Version)
	if a.redis != nil {
		a.checker.AddOptional("redis", a.redis)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(a.logger)
	e.Server.ReadTimeout = time.Duration(a.cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(a.cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(a.cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.ReadHeaderTimeout = time.Duration(a.cfg.ReadHeaderTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = a.cfg.MaxHeaderBytes

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: a.cfg.AllowOrigins,
		AllowMethods: a.cfg.AllowMethods,
		AllowHeaders: []string{echo.HeaderContentType, middleware.HeaderBrandID, middleware.HeaderUserID, echo.HeaderXRequestID},
	}))
	e.Use(otelecho.Middleware(a.cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(a.logger))

	a.checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1", middleware.RequireBrand(a.logger))
	handlers.NewConfigHandler(svc).RegisterRoutes(api)

	a.server = e
	go func() {
		if err := e.Start(fmt.Sprintf(":%d", a.cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.WithError(err).Error("HTTP server stopped")
		}
	}()
	return nil
}

func (a *app) stopHTTP(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

type memoryPinger struct{}

func (memoryPinger) PingContext(context.Context) error { return nil }
