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

	"github.com/labstack/echo/v4"
	sloggorm "github.com/orandin/slog-gorm"
	"github.com/sethvargo/go-retry"
	otellib "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormtracing "gorm.io/plugin/opentelemetry/tracing"

	"github.com/adzkyyy/adCTF/cmd/server/internal/migrations"
	"github.com/adzkyyy/adCTF/cmd/server/internal/models"
	"github.com/adzkyyy/adCTF/cmd/server/internal/routes"
	"github.com/adzkyyy/adCTF/cmd/server/internal/scheduler"
	"github.com/adzkyyy/adCTF/cmd/server/internal/scoring"
	"github.com/adzkyyy/adCTF/cmd/server/internal/tick"
	"github.com/adzkyyy/adCTF/internal/cache"
	"github.com/adzkyyy/adCTF/internal/config"
	"github.com/adzkyyy/adCTF/internal/logger"
	"github.com/adzkyyy/adCTF/internal/otel"
)

const name string = "github.com/adzkyyy/adCTF/cmd/server"

var tracer = otellib.Tracer(name)

type server struct {
	router       *echo.Echo
	config       *config.Config
	db           *gorm.DB
	store        *models.Store
	scheduler    scheduler.Scheduler
	otelShutdown func(context.Context) error
}

func initServer(ctx context.Context) (*server, error) {
	server := new(server)

	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize server config: %w", err)
	}
	server.config = cfg

	shutdownOTel, err := otel.SetupOTelSDK(ctx, cfg.Logging.UseOTLP)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OTEL SDK: %w", err)
	}
	defer func() {
		// Something failed to initialize, make sure everything gets flushed to the server
		if server.otelShutdown == nil {
			otelShutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				time.Second*time.Duration(cfg.GracefulShutdownSecs),
			)
			defer cancel()

			if err = shutdownOTel(otelShutdownCtx); err != nil {
				logger.Logger.Error("failed to flush otel data", "error", err)
			}
		}
	}()

	ctx, span := tracer.Start(ctx, "initServer")
	defer span.End()

	logger.LogLevel.Set(slog.Level(cfg.Logging.App.Level))
	gormLogger := slog.New(logger.Handler)

	sg := sloggorm.New(
		sloggorm.WithHandler(gormLogger.Handler()),
		sloggorm.SetLogLevel(sloggorm.DefaultLogType, slog.Level(cfg.Logging.Gorm.Level)),
	)
	if cfg.Logging.Gorm.TraceQueries {
		sg = sloggorm.New(
			sloggorm.WithHandler(gormLogger.Handler()),
			sloggorm.WithTraceAll(),
			sloggorm.SetLogLevel(sloggorm.DefaultLogType, slog.Level(cfg.Logging.Gorm.Level)),
		)
	}

	span.AddEvent("initialized gorm logging")

	// The database container often comes up after us; retry the initial
	// connect instead of crash-looping.
	var db *gorm.DB
	err = retry.Do(ctx, retry.WithMaxRetries(5, retry.NewConstant(2*time.Second)),
		func(ctx context.Context) error {
			var openErr error
			db, openErr = gorm.Open(
				postgres.Open(cfg.PostgresDSN()),
				&gorm.Config{Logger: sg, TranslateError: true},
			)
			if openErr != nil {
				logger.Logger.Warn("database not reachable yet, retrying", "error", openErr)
				return retry.RetryableError(openErr)
			}
			return nil
		})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to initialize database")
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to acquire underlying database connection")
		return nil, fmt.Errorf("failed to acquire underlying database connection: %w", err)
	}

	// Configure db connection pool
	sqlDB.SetMaxIdleConns(cfg.Postgres.MaxIdleConnections)
	sqlDB.SetMaxOpenConns(cfg.Postgres.MaxOpenConnections)
	sqlDB.SetConnMaxLifetime(cfg.Postgres.ConnectionTTL)

	span.AddEvent("initialized database connection")

	err = db.Use(gormtracing.NewPlugin())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to add otel plugin to gorm")
		return nil, fmt.Errorf("failed to add otel plugin to gorm: %w", err)
	}

	span.AddEvent("added the otel plugin to gorm")

	err = migrations.Up(ctx, db)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to perform database migrations")
		return nil, fmt.Errorf("failed to perform database migrations: %w", err)
	}

	span.AddEvent("migrated database to latest version")

	store := models.NewStore(db)

	if err = store.EnsureConfig(ctx, cfg.Challenge.DefaultTickSeconds); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to seed competition config row")
		return nil, fmt.Errorf("failed to seed competition config row: %w", err)
	}

	span.AddEvent("seeded competition config row")

	redisCache := cache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	runner := tick.NewRunner(store, tick.NewTCPProber(cfg.ProbeTimeout()))

	var sched scheduler.Scheduler
	switch scheduler.Strategy(cfg.Scheduler.Strategy) {
	case scheduler.StrategyPolling:
		sched = scheduler.NewPolling(store, runner)
	default:
		sched = scheduler.NewIntervalGrace(store, runner, cfg.MisfireGrace())
	}

	span.AddEvent("built tick scheduler")

	scores := scoring.NewCached(
		scoring.NewEngine(store),
		redisCache,
		cfg.CacheWindow(),
	)

	handler := routes.NewHandler(store, scores, sched, cfg)

	e, err := routes.BuildEcho(logger.Logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "error building router")
		return nil, fmt.Errorf("error building router: %w", err)
	}

	span.AddEvent("created echo router")

	handler.AddRoutes(e)

	server.otelShutdown = shutdownOTel
	server.router = e
	server.db = db
	server.store = store
	server.scheduler = sched

	return server, nil
}

func (s *server) Start(ctx context.Context) error {
	// Resume scheduling across restarts. The started flag is persisted, so
	// a crash while the competition is running must not silence the ticks.
	settings, err := s.store.Settings(ctx)
	switch {
	case errors.Is(err, scheduler.ErrConfigMissing):
		logger.Logger.Warn("no competition config row at boot, scheduler idle")
	case err != nil:
		return fmt.Errorf("failed to read competition settings at boot: %w", err)
	case settings.Started:
		logger.Logger.Info("challenge marked started, resuming tick scheduler")
		if err := s.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to resume tick scheduler: %w", err)
		}
	}

	logger.Logger.Info("Starting services...")

	err = s.router.Start(s.config.ListenAddress)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *server) Shutdown() error {
	var errs error

	ctx, cancelTimeout := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(s.config.GracefulShutdownSecs),
	)
	defer cancelTimeout()

	s.scheduler.Stop()

	if err := s.router.Shutdown(ctx); err != nil {
		errs = errors.Join(errs, err)
	}

	if s.otelShutdown != nil {
		errs = errors.Join(errs, s.otelShutdown(ctx))
	}

	return errs
}

func main() {
	ctx, cancelSignal := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)

	logger.InitSlog()

	server, err := initServer(ctx)
	if err != nil {
		logger.Logger.Error(err.Error())
		cancelSignal()
		os.Exit(1)
	}

	errch := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logger.Logger.Info("Got shutdown signal!")
		errch <- server.Shutdown()
		close(errch)
	}()

	if err := server.Start(ctx); err != nil {
		logger.Logger.Error(err.Error())
		cancelSignal()
		os.Exit(1)
	}

	if err := <-errch; err != nil {
		logger.Logger.Error("Error shutting down server", "error", err)
	}

	cancelSignal()
}
