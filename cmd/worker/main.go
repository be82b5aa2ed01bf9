// Command worker consumes analysis requests from Kafka and publishes the
// results.
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

	appmol "github.com/turtacn/molgraph/internal/application/molecule"
	"github.com/turtacn/molgraph/internal/bootstrap"
	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/molgraph/internal/interfaces/http"
	"github.com/turtacn/molgraph/internal/interfaces/http/handlers"
	"github.com/turtacn/molgraph/internal/interfaces/messaging"
)

// version is set at build time via -ldflags.
var version = "dev"

const (
	defaultConfigPath = "configs/config.yaml"
	defaultHealthPort = 8081
	topicSetupTimeout = 30 * time.Second
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	healthPort := flag.Int("health-port", defaultHealthPort, "port for /healthz, /readyz and /metrics")
	ensureTopics := flag.Bool("ensure-topics", false, "create the request, result and dead-letter topics on startup")
	flag.Parse()

	if err := run(*configPath, *healthPort, *ensureTopics); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, healthPort int, ensureTopics bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := bootstrap.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	logger.Info("starting molgraph worker",
		logging.String("version", version),
		logging.Any("brokers", cfg.Kafka.Brokers),
		logging.String("request_topic", cfg.Kafka.RequestTopic),
		logging.String("result_topic", cfg.Kafka.ResultTopic),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("infrastructure: %w", err)
	}
	defer infra.Close(context.Background())

	if ensureTopics {
		if err := createTopics(ctx, cfg.Kafka, logger); err != nil {
			return err
		}
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		Acks:         "all",
		MaxRetries:   cfg.Kafka.MaxRetries,
		BatchSize:    cfg.Kafka.BatchSize,
		BatchTimeout: cfg.Kafka.BatchTimeout,
	}, logger.Named("producer"))
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer func() { _ = producer.Close() }()

	svc := infra.NewService(cfg)
	processor := appmol.NewJobProcessor(svc,
		messaging.NewResultPublisher(producer, cfg.Kafka.ResultTopic),
		logger.Named("jobs"))

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:         cfg.Kafka.Brokers,
		GroupID:         cfg.Kafka.GroupID,
		Topics:          []string{cfg.Kafka.RequestTopic},
		AutoOffsetReset: cfg.Kafka.AutoOffsetReset,
		RetryConfig: kafka.RetryConfig{
			MaxRetries:      cfg.Kafka.MaxRetries,
			DeadLetterTopic: cfg.Kafka.DeadLetterTopic,
		},
	}, logger.Named("consumer"))
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	defer func() { _ = consumer.Close() }()

	handler := messaging.NewAnalysisRequestHandler(processor, infra.Metrics, logger.Named("handler"))
	if err := consumer.Subscribe(cfg.Kafka.RequestTopic, handler); err != nil {
		return err
	}

	healthSrv := startHealthServer(cfg, healthPort, infra, logger)

	if err := consumer.Start(ctx); err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}

	<-ctx.Done()
	logger.Info("shutting down worker")

	if err := healthSrv.Stop(context.Background()); err != nil {
		logger.Error("health server shutdown error", logging.Err(err))
	}
	logger.Info("worker stopped")
	return nil
}

func createTopics(ctx context.Context, cfg config.KafkaConfig, logger logging.Logger) error {
	tm, err := kafka.NewTopicManager(cfg.Brokers, logger.Named("topics"))
	if err != nil {
		return fmt.Errorf("kafka topics: %w", err)
	}
	defer func() { _ = tm.Close() }()

	ctx, cancel := context.WithTimeout(ctx, topicSetupTimeout)
	defer cancel()
	return tm.EnsureTopics(ctx, kafka.DefaultTopics(cfg.RequestTopic, cfg.ResultTopic, cfg.DeadLetterTopic))
}

func startHealthServer(cfg *config.Config, port int, infra *bootstrap.Infrastructure, logger logging.Logger) *httpserver.Server {
	gin.SetMode(gin.ReleaseMode)

	routerCfg := httpserver.RouterConfig{
		HealthHandler: handlers.NewHealthHandler(version, infra.HealthCheckers()...),
		Logger:        logger.Named("http"),
	}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsHandler = infra.Collector.Handler()
		routerCfg.MetricsPath = cfg.Metrics.Path
	}

	serverCfg := cfg.Server
	serverCfg.Port = port
	srv := httpserver.NewServer(serverCfg, httpserver.NewRouter(routerCfg), logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("health server error", logging.Err(err))
		}
	}()
	return srv
}

func loadConfig(configPath string) (*config.Config, error) {
	if _, err := os.Stat(configPath); err == nil {
		return config.Load(configPath)
	}
	fmt.Fprintf(os.Stderr, "worker: %s not found, configuring from environment\n", configPath)
	return config.LoadFromEnv()
}
