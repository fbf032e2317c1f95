// @title                       AMC filtration line simulator API
// @version                     1.0
// @description                 Generates, analyses and distributes synthetic sensor records of an AMC chemical filtration line.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "amc_simulator/docs"
	"amc_simulator/internal/config"
	"amc_simulator/internal/handlers"
	"amc_simulator/internal/logger"
	"amc_simulator/internal/mqtt"
	"amc_simulator/internal/repository"
	"amc_simulator/internal/repository/db"
	"amc_simulator/internal/server"
	"amc_simulator/internal/service"
	"amc_simulator/internal/storage"

	"github.com/redis/go-redis/v9"
)

const startupTimeout = 15 * time.Second

func main() {
	// load configs/config.yml, .env and AMC_* overrides
	cfg, err := config.Load("config", "configs")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Init(cfg.Log.Level, cfg.Log.Encoding)
	defer func() { _ = log.Sync() }()

	ensureSigningKey(cfg, log)

	// open DB
	sqlDB, err := openDB(cfg.DB, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	startCtx, startCancel := context.WithTimeout(context.Background(), startupTimeout)
	defer startCancel()

	// optional integrations
	redisClient := connectRedis(startCtx, cfg.Redis, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}
	deps, closeDeps := connectDistribution(startCtx, cfg, log)
	defer closeDeps()

	// wire dependencies
	var cache repository.SummaryCache
	if redisClient != nil {
		cache = repository.NewRedisSummaryCache(redisClient, cfg.Redis.TTL)
	}
	repos := repository.NewRepository(sqlDB, cache)
	services := service.NewService(repos, cfg, deps, log)
	apiHandler := handlers.NewHandler(services, log, handlers.WithReplayInterval(cfg.Generator.ReplayInterval))

	// runs are session state: drop whatever a previous process left behind
	if n, err := services.Janitor.Purge(startCtx); err != nil {
		log.Fatalw("failed to purge runs", "err", err)
	} else if n > 0 {
		log.Infow("runs_purged", "removed", n)
	}

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start retention janitor
	go services.Janitor.Run(ctx, cfg.Retention.Tick)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Server, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, cfg.Server.ShutdownTimeout, log)
}

// ensureSigningKey generates a per-process JWT key when none is configured.
// Tokens then stop validating on restart.
func ensureSigningKey(cfg *config.Config, log *logger.Logger) {
	if cfg.Auth.SigningKey != "" {
		return
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalw("failed to generate signing key", "err", err)
	}
	cfg.Auth.SigningKey = hex.EncodeToString(buf)
	log.Warnw("auth.signing_key not set; using an ephemeral key")
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg config.DBConfig, log *logger.Logger) (*sql.DB, error) {
	log.Infow("opening sqlite", "path", cfg.Path)
	return db.InitDB(cfg.Path)
}

// connectRedis returns nil when Redis is not configured or unreachable; the
// in-process cache is used instead.
func connectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	client, err := repository.NewRedisClient(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		log.Warnw("redis_unavailable", "addr", cfg.Addr, "err", err)
		return nil
	}
	log.Infow("redis_connected", "addr", cfg.Addr)
	return client
}

// connectDistribution sets up the object store and the MQTT publisher. A
// feature whose endpoint is empty stays disabled; a configured one that
// fails to come up is fatal.
func connectDistribution(ctx context.Context, cfg *config.Config, log *logger.Logger) (service.Deps, func()) {
	var deps service.Deps
	closers := []func(){}

	if cfg.Storage.Endpoint != "" {
		archive, err := storage.New(cfg.Storage)
		if err != nil {
			log.Fatalw("failed to init object storage", "endpoint", cfg.Storage.Endpoint, "err", err)
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			log.Fatalw("failed to ensure bucket", "bucket", cfg.Storage.Bucket, "err", err)
		}
		deps.Archive = archive
		log.Infow("object_storage_ready", "endpoint", cfg.Storage.Endpoint, "bucket", cfg.Storage.Bucket)
	}

	if cfg.MQTT.Broker != "" {
		pub, err := mqtt.Connect(cfg.MQTT, log)
		if err != nil {
			log.Fatalw("failed to connect mqtt broker", "broker", cfg.MQTT.Broker, "err", err)
		}
		deps.Publisher = pub
		closers = append(closers, pub.Close)
	}

	return deps, func() {
		for _, c := range closers {
			c()
		}
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, cfg config.ServerConfig, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_listening", "port", cfg.Port)
		if err := srv.Run(cfg, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, timeout time.Duration, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
