// Command apiserver serves the molgraph HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/molgraph/internal/bootstrap"
	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/molgraph/internal/interfaces/http"
	"github.com/turtacn/molgraph/internal/interfaces/http/handlers"
	"github.com/turtacn/molgraph/internal/interfaces/http/middleware"
)

// version is set at build time via -ldflags.
var version = "dev"

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP port (overrides server.port)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, err := bootstrap.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	logger.Info("starting molgraph API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
		logging.String("mode", cfg.Server.Mode),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("infrastructure: %w", err)
	}
	defer infra.Close(context.Background())

	svc := infra.NewService(cfg)

	gin.SetMode(cfg.Server.Mode)
	routerCfg := httpserver.RouterConfig{
		MoleculeHandler: handlers.NewMoleculeHandler(svc),
		HealthHandler:   handlers.NewHealthHandler(version, infra.HealthCheckers()...),
		Logging:         middleware.DefaultLoggingConfig(),
		MaxBodySize:     cfg.Server.MaxBodySize,
		Logger:          logger.Named("http"),
		Metrics:         infra.Metrics,
	}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsHandler = infra.Collector.Handler()
		routerCfg.MetricsPath = cfg.Metrics.Path
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = cfg.Server.CORSOrigins
		routerCfg.CORS = &cors
	}
	if cfg.Server.RateLimitRPS > 0 {
		limiter := middleware.NewTokenBucketLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, time.Minute)
		defer limiter.Stop()
		routerCfg.RateLimiter = limiter
		routerCfg.RateLimit = middleware.DefaultRateLimitConfig()
		routerCfg.RateLimit.RequestsPerSecond = cfg.Server.RateLimitRPS
		routerCfg.RateLimit.BurstSize = cfg.Server.RateLimitBurst
	}

	srv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)

	watchConfig(configPath, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := srv.Stop(context.Background()); err != nil {
		logger.Error("HTTP server shutdown error", logging.Err(err))
	}
	logger.Info("API server stopped")
	return nil
}

// loadConfig reads configPath when it exists and falls back to the
// MOLGRAPH_* environment otherwise.
func loadConfig(configPath string) (*config.Config, error) {
	if _, err := os.Stat(configPath); err == nil {
		return config.Load(configPath)
	}
	fmt.Fprintf(os.Stderr, "apiserver: %s not found, configuring from environment\n", configPath)
	return config.LoadFromEnv()
}

// watchConfig applies log level changes without a restart.
func watchConfig(configPath string, logger logging.Logger) {
	if _, err := os.Stat(configPath); err != nil {
		return
	}
	err := config.Watch(configPath, func(next *config.Config) {
		logger.SetLevel(next.Log.Level)
		logger.Info("configuration reloaded", logging.String("log_level", next.Log.Level))
	}, func(err error) {
		logger.Warn("ignoring invalid configuration change", logging.Err(err))
	})
	if err != nil {
		logger.Warn("config watch disabled", logging.Err(err))
	}
}
