package bootstrap

import (
	"context"

	"github.com/turtacn/molgraph/internal/interfaces/http/handlers"
)

type healthCheck struct {
	name  string
	check func(ctx context.Context) error
}

func (h healthCheck) Name() string                    { return h.name }
func (h healthCheck) Check(ctx context.Context) error { return h.check(ctx) }

// HealthCheckers returns one readiness probe per open backend.
func (i *Infrastructure) HealthCheckers() []handlers.HealthChecker {
	var checks []handlers.HealthChecker
	if i.Postgres != nil {
		checks = append(checks, healthCheck{name: "postgres", check: i.Postgres.HealthCheck})
	}
	if i.Redis != nil {
		checks = append(checks, healthCheck{name: "redis", check: i.Redis.Ping})
	}
	if i.Neo4j != nil {
		checks = append(checks, healthCheck{name: "neo4j", check: i.Neo4j.HealthCheck})
	}
	if i.MinIO != nil {
		checks = append(checks, healthCheck{name: "minio", check: i.MinIO.HealthCheck})
	}
	return checks
}
