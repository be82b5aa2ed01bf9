package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appmol "github.com/turtacn/molgraph/internal/application/molecule"
	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/infrastructure/database/postgres"
	"github.com/turtacn/molgraph/internal/infrastructure/database/redis"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg
}

func restoreOpeners(t *testing.T) {
	t.Helper()
	pg, rd, mig := openPostgres, openRedis, runMigrations
	t.Cleanup(func() {
		openPostgres, openRedis, runMigrations = pg, rd, mig
	})
}

func TestBuild_AllBackendsDisabled(t *testing.T) {
	infra, err := Build(context.Background(), testConfig(), logging.NewNopLogger())
	require.NoError(t, err)
	defer infra.Close(context.Background())

	assert.Nil(t, infra.Postgres)
	assert.Nil(t, infra.Redis)
	assert.Nil(t, infra.Neo4j)
	assert.Nil(t, infra.MinIO)
	assert.Empty(t, infra.HealthCheckers())
	require.NotNil(t, infra.Metrics)

	svc := infra.NewService(testConfig())
	m, err := svc.Parse(context.Background(), "CCO")
	require.NoError(t, err)
	assert.Equal(t, "C2H6O", m.Formula())
}

func TestBuild_NilLogger(t *testing.T) {
	infra, err := Build(context.Background(), testConfig(), nil)
	require.NoError(t, err)
	assert.NotNil(t, infra.Logger)
}

func TestBuild_MetricsEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Namespace = "molgraph_test"

	infra, err := Build(context.Background(), cfg, logging.NewNopLogger())
	require.NoError(t, err)

	svc := infra.NewService(cfg)
	_, err = svc.Analyze(context.Background(), appmol.AnalyzeRequest{SMILES: "C1CCCCC1"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	infra.Collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "molgraph_test_")
}

func TestBuild_RedisCacheWired(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = mr.Addr()

	infra, err := Build(context.Background(), cfg, logging.NewNopLogger())
	require.NoError(t, err)
	defer infra.Close(context.Background())

	checks := infra.HealthCheckers()
	require.Len(t, checks, 1)
	assert.Equal(t, "redis", checks[0].Name())
	assert.NoError(t, checks[0].Check(context.Background()))

	svc := infra.NewService(cfg)
	first, err := svc.Analyze(context.Background(), appmol.AnalyzeRequest{SMILES: "CCO"})
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Analyze(context.Background(), appmol.AnalyzeRequest{SMILES: "CCO"})
	require.NoError(t, err)
	assert.True(t, second.Cached)

	keys := mr.Keys()
	require.NotEmpty(t, keys)
	assert.Contains(t, keys[0], cfg.Redis.KeyPrefix)
}

func TestBuild_FailureClosesOpenedBackends(t *testing.T) {
	restoreOpeners(t)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	openPostgres = func(postgres.PostgresConfig, logging.Logger) (*postgres.Connection, error) {
		return postgres.NewConnectionWithDB(db, logging.NewNopLogger()), nil
	}
	openRedis = func(redis.RedisConfig, logging.Logger) (*redis.Client, error) {
		return nil, redis.ErrConnectionFailed
	}

	cfg := testConfig()
	cfg.Database.Enabled = true
	cfg.Redis.Enabled = true

	infra, err := Build(context.Background(), cfg, logging.NewNopLogger())
	assert.Nil(t, infra)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuild_MigrationFailure(t *testing.T) {
	restoreOpeners(t)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	openPostgres = func(postgres.PostgresConfig, logging.Logger) (*postgres.Connection, error) {
		return postgres.NewConnectionWithDB(db, logging.NewNopLogger()), nil
	}
	migrated := false
	runMigrations = func(*postgres.Connection) error {
		migrated = true
		return errors.New(errors.ErrCodeDatabaseError, "migration failed")
	}

	cfg := testConfig()
	cfg.Database.Enabled = true
	cfg.Database.AutoMigrate = true

	_, err = Build(context.Background(), cfg, logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, migrated)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatabaseError))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuild_PostgresHealthChecker(t *testing.T) {
	restoreOpeners(t)

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()
	mock.ExpectClose()

	openPostgres = func(postgres.PostgresConfig, logging.Logger) (*postgres.Connection, error) {
		return postgres.NewConnectionWithDB(db, logging.NewNopLogger()), nil
	}

	cfg := testConfig()
	cfg.Database.Enabled = true

	infra, err := Build(context.Background(), cfg, logging.NewNopLogger())
	require.NoError(t, err)

	checks := infra.HealthCheckers()
	require.Len(t, checks, 1)
	assert.Equal(t, "postgres", checks[0].Name())
	assert.NoError(t, checks[0].Check(context.Background()))

	infra.Close(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "molgraph.log")
	logger, err := NewLogger(config.LogConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("visible", logging.String("smiles", "CCO"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"visible"`)
	assert.Contains(t, string(data), `"smiles":"CCO"`)
	assert.NotContains(t, string(data), "hidden")
}
