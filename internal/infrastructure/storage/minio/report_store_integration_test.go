//go:build integration

package minio_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/infrastructure/storage/minio"
	apperrors "github.com/turtacn/molgraph/pkg/errors"
)

func startMinIO(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:RELEASE.2024-01-16T16-07-38Z",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "minioadmin",
				"MINIO_ROOT_PASSWORD": "minioadmin",
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.PortEndpoint(ctx, "9000/tcp", "")
	require.NoError(t, err)
	return endpoint
}

func TestReportStore_Integration(t *testing.T) {
	endpoint := startMinIO(t)
	ctx := context.Background()

	client, err := minio.NewClient(ctx, minio.ClientConfig{
		Endpoint:         endpoint,
		AccessKey:        "minioadmin",
		SecretKey:        "minioadmin",
		Bucket:           "molgraph-reports",
		Prefix:           "it",
		ReportExpiryDays: 7,
	}, logging.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, client.HealthCheck(ctx))

	store := minio.NewReportStore(client, logging.NewNopLogger())

	type report struct {
		ID     string `json:"id"`
		Failed int    `json:"failed"`
	}
	loc, err := store.PutJSON(ctx, "batches/r1.json", report{ID: "r1", Failed: 1})
	require.NoError(t, err)
	assert.Equal(t, "s3://molgraph-reports/it/batches/r1.json", loc)

	var got report
	require.NoError(t, store.GetJSON(ctx, "batches/r1.json", &got))
	assert.Equal(t, report{ID: "r1", Failed: 1}, got)

	exists, err := store.Exists(ctx, "batches/r1.json")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, "batches/r1.json"))
	err = store.GetJSON(ctx, "batches/r1.json", &got)
	assert.True(t, apperrors.IsNotFound(err))
}
