package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend-getyourextreme/internal/config"
	"backend-getyourextreme/internal/db"
	"backend-getyourextreme/internal/logging"
	"backend-getyourextreme/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

// Backends groups the optional connections handed to the server.
type Backends struct {
	Postgres       *pgxpool.Pool
	PostgresPublic *pgxpool.Pool
	Redis          *redis.Client
}

func (b Backends) Close() {
	if b.PostgresPublic != nil && b.PostgresPublic != b.Postgres {
		b.PostgresPublic.Close()
	}
	if b.Postgres != nil {
		b.Postgres.Close()
	}
	if b.Redis != nil {
		_ = b.Redis.Close()
	}
}

type mainDeps struct {
	loadConfig            func() config.Config
	newLogger             func(config.Config) (*zap.Logger, error)
	connectPostgres       func(config.Config) (*pgxpool.Pool, error)
	connectPostgresPublic func(config.Config) (*pgxpool.Pool, error)
	connectRedis          func(config.Config) *redis.Client
	notify                func(chan<- os.Signal, ...os.Signal)
	run                   func(context.Context, config.Config, Backends, *zap.Logger, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:            config.Load,
		newLogger:             logging.New,
		connectPostgres:       db.ConnectPostgres,
		connectPostgresPublic: db.ConnectPostgresPublic,
		connectRedis:          db.ConnectRedis,
		notify:                signal.Notify,
		run:                   Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()

	logger, err := deps.newLogger(cfg)
	if err != nil {
		log.Printf("logger setup failed: %v", err)
		logger = zap.NewNop()
	}
	defer func() { _ = logger.Sync() }()

	var backends Backends
	if cfg.BackendConfigured() {
		backends.Postgres, err = deps.connectPostgres(cfg)
		if err != nil {
			logger.Warn("postgres connection failed", zap.Error(err))
		}
		if cfg.PostgresPublicURL == cfg.PostgresURL {
			backends.PostgresPublic = backends.Postgres
		} else if backends.PostgresPublic, err = deps.connectPostgresPublic(cfg); err != nil {
			logger.Warn("public postgres connection failed", zap.Error(err))
		}
	} else {
		logger.Info("backend not configured, auth and profiles are disabled")
	}
	backends.Redis = deps.connectRedis(cfg)

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, backends, logger, signals, nil); err != nil {
		logger.Error("server exited with error", zap.Error(err))
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, backends Backends, logger *zap.Logger, signals <-chan os.Signal, listen ListenFunc) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv, err := server.NewServer(cfg, backends.Postgres, backends.PostgresPublic, backends.Redis, logger)
	if err != nil {
		backends.Close()
		return err
	}
	defer backends.Close()

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.ServerPort))
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return shutdownFn(srv.App, shutdownCtx)
}
