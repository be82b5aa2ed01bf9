// Package bootstrap builds the collaborators shared by the molgraph
// processes from a loaded Config: the logger, the metrics registry, the
// optional storage backends and the analysis service on top of them.
package bootstrap

import (
	"context"
	"time"

	appmol "github.com/turtacn/molgraph/internal/application/molecule"
	"github.com/turtacn/molgraph/internal/config"
	neo4jdriver "github.com/turtacn/molgraph/internal/infrastructure/database/neo4j"
	neo4jrepo "github.com/turtacn/molgraph/internal/infrastructure/database/neo4j/repositories"
	"github.com/turtacn/molgraph/internal/infrastructure/database/postgres"
	pgrepo "github.com/turtacn/molgraph/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/molgraph/internal/infrastructure/database/redis"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molgraph/internal/infrastructure/storage/minio"
	"github.com/turtacn/molgraph/pkg/errors"
)

// Openers are package variables so tests can substitute fakes.
var (
	openPostgres  = postgres.NewConnection
	openRedis     = redis.NewClient
	openNeo4j     = neo4jdriver.NewDriver
	openMinIO     = minio.NewClient
	runMigrations = func(c *postgres.Connection) error { return c.RunMigrations() }
	ensureGraph   = func(ctx context.Context, r *neo4jrepo.MoleculeGraphRepository) error { return r.EnsureConstraints(ctx) }
)

// NewLogger maps the log section onto a zap-backed logger.
func NewLogger(cfg config.LogConfig) (logging.Logger, error) {
	lc := logging.LogConfig{
		Level:            cfg.Level,
		Format:           cfg.Format,
		EnableCaller:     cfg.EnableCaller,
		EnableStacktrace: cfg.EnableStacktrace,
	}
	if cfg.Output != "" {
		lc.OutputPaths = []string{cfg.Output}
	}
	return logging.NewLogger(lc)
}

// Infrastructure owns every backend connection opened for a process.  A nil
// field means the backend is disabled in the configuration.
type Infrastructure struct {
	Logger    logging.Logger
	Collector prometheus.MetricsCollector
	Metrics   *prometheus.AppMetrics

	Postgres *postgres.Connection
	Redis    *redis.Client
	Neo4j    *neo4jdriver.Driver
	MinIO    *minio.Client

	graph *neo4jrepo.MoleculeGraphRepository
}

// Build opens the enabled backends.  On failure everything opened so far is
// closed before the error is returned.
func Build(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Infrastructure, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	infra := &Infrastructure{Logger: logger}

	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create metrics collector")
		}
		infra.Collector = collector
	} else {
		infra.Collector = prometheus.NewNoopCollector()
	}
	infra.Metrics = prometheus.NewAppMetrics(infra.Collector)

	if err := infra.open(ctx, cfg); err != nil {
		infra.Close(context.Background())
		return nil, err
	}

	logger.Info("infrastructure initialized",
		logging.Bool("postgres", infra.Postgres != nil),
		logging.Bool("redis", infra.Redis != nil),
		logging.Bool("neo4j", infra.Neo4j != nil),
		logging.Bool("minio", infra.MinIO != nil),
		logging.Bool("metrics", cfg.Metrics.Enabled),
	)
	return infra, nil
}

func (i *Infrastructure) open(ctx context.Context, cfg *config.Config) error {
	log := i.Logger

	if cfg.Database.Enabled {
		conn, err := openPostgres(postgres.PostgresConfig{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			Database:        cfg.Database.DBName,
			Username:        cfg.Database.User,
			Password:        cfg.Database.Password,
			SSLMode:         cfg.Database.SSLMode,
			MaxOpenConns:    cfg.Database.MaxConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		}, log.Named("postgres"))
		if err != nil {
			return err
		}
		i.Postgres = conn
		if cfg.Database.AutoMigrate {
			if err := runMigrations(conn); err != nil {
				return err
			}
		}
	}

	if cfg.Redis.Enabled {
		client, err := openRedis(redis.RedisConfig{
			Addrs:        []string{cfg.Redis.Addr},
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}, log.Named("redis"))
		if err != nil {
			return err
		}
		i.Redis = client
	}

	if cfg.Neo4j.Enabled {
		drv, err := openNeo4j(neo4jdriver.Neo4jConfig{
			URI:                          cfg.Neo4j.URI,
			Username:                     cfg.Neo4j.User,
			Password:                     cfg.Neo4j.Password,
			Database:                     cfg.Neo4j.Database,
			MaxConnectionPoolSize:        cfg.Neo4j.MaxConnectionPoolSize,
			ConnectionAcquisitionTimeout: cfg.Neo4j.ConnectionTimeout,
		}, log.Named("neo4j"))
		if err != nil {
			return err
		}
		i.Neo4j = drv
		i.graph = neo4jrepo.NewNeo4jMoleculeGraphRepo(drv, log.Named("graph"))
		if err := ensureGraph(ctx, i.graph); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create molecule graph constraints")
		}
	}

	if cfg.MinIO.Enabled {
		client, err := openMinIO(ctx, minio.ClientConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
			Prefix:    cfg.MinIO.Prefix,
		}, log.Named("minio"))
		if err != nil {
			return err
		}
		i.MinIO = client
	}

	return nil
}

// NewService wires the analysis service over whichever backends are open.
func (i *Infrastructure) NewService(cfg *config.Config) appmol.Service {
	deps := appmol.Deps{
		Parser:  appmol.ParserFromConfig(cfg.Parser),
		Metrics: i.Metrics,
		Logger:  i.Logger.Named("molecule"),
	}
	if i.Postgres != nil {
		deps.Store = pgrepo.NewPostgresAnalysisRepo(i.Postgres, i.Logger.Named("analysis_repo"))
	}
	if i.Redis != nil {
		deps.Cache = redis.NewRedisCache(i.Redis, i.Logger.Named("cache"),
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithDefaultTTL(cfg.Analysis.CacheTTL),
			redis.WithJitter(0.1),
		)
	}
	if i.graph != nil {
		deps.Graph = i.graph
	}
	if i.MinIO != nil {
		deps.Archive = minio.NewReportStore(i.MinIO, i.Logger.Named("reports"))
	}
	return appmol.NewService(appmol.ConfigFromAnalysis(cfg.Analysis), deps)
}

// Close releases the backends in reverse order of opening.
func (i *Infrastructure) Close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if i.MinIO != nil {
		if err := i.MinIO.Close(); err != nil {
			i.Logger.Warn("minio close failed", logging.Err(err))
		}
	}
	if i.Neo4j != nil {
		if err := i.Neo4j.Close(ctx); err != nil {
			i.Logger.Warn("neo4j close failed", logging.Err(err))
		}
	}
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			i.Logger.Warn("redis close failed", logging.Err(err))
		}
	}
	if i.Postgres != nil {
		if err := i.Postgres.Close(); err != nil {
			i.Logger.Warn("postgres close failed", logging.Err(err))
		}
	}
}
