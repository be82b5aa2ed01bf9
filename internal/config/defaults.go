package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultMaxBodySize     = 4 << 20
	DefaultShutdownTimeout = 15 * time.Second

	DefaultMaxInputLength        = 100_000
	DefaultAromaticBondElectrons = 1.0
	DefaultAromaticAtomPenalty   = 1.0
	DefaultMaxExplicitHydrogens  = 9
	DefaultMaxCharge             = 15

	DefaultTieBreak        = "all"
	DefaultWorkers         = 4
	DefaultBatchWorkers    = 8
	DefaultMaxBatchSize    = 1000
	DefaultCacheTTL        = time.Hour
	DefaultTimeout         = 30 * time.Second
	DefaultReportURLExpiry = 24 * time.Hour

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "molgraph"
	DefaultDBMaxConns = 25

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "molgraph:"

	DefaultNeo4jURI = "bolt://localhost:7687"

	DefaultKafkaBroker       = "localhost:9092"
	DefaultKafkaGroupID      = "molgraph-worker"
	DefaultKafkaRequestTopic = "molgraph.analysis.requests"
	DefaultKafkaResultTopic  = "molgraph.analysis.results"
	DefaultKafkaDeadLetter   = "molgraph.dead_letter"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "molgraph-reports"

	DefaultMetricsNamespace = "molgraph"
	DefaultMetricsPath      = "/metrics"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with its default.
// Values already set are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RateLimitRPS > 0 && cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = int(cfg.Server.RateLimitRPS) * 2
	}

	// ── Parser ────────────────────────────────────────────────────────────────
	if cfg.Parser.MaxInputLength == 0 {
		cfg.Parser.MaxInputLength = DefaultMaxInputLength
	}
	if cfg.Parser.MaxExplicitHydrogens == 0 {
		cfg.Parser.MaxExplicitHydrogens = DefaultMaxExplicitHydrogens
	}
	if cfg.Parser.MaxCharge == 0 {
		cfg.Parser.MaxCharge = DefaultMaxCharge
	}
	if cfg.Parser.AromaticBondElectrons == 0 {
		cfg.Parser.AromaticBondElectrons = DefaultAromaticBondElectrons
	}
	// AromaticAtomPenalty: 0 is a meaningful setting (the 1.5-electron model),
	// so the default is applied through viper in loader.go instead.

	// ── Analysis ──────────────────────────────────────────────────────────────
	if cfg.Analysis.TieBreak == "" {
		cfg.Analysis.TieBreak = DefaultTieBreak
	}
	if cfg.Analysis.Workers == 0 {
		cfg.Analysis.Workers = DefaultWorkers
	}
	if cfg.Analysis.BatchWorkers == 0 {
		cfg.Analysis.BatchWorkers = DefaultBatchWorkers
	}
	if cfg.Analysis.MaxBatchSize == 0 {
		cfg.Analysis.MaxBatchSize = DefaultMaxBatchSize
	}
	if cfg.Analysis.CacheTTL == 0 {
		cfg.Analysis.CacheTTL = DefaultCacheTTL
	}
	if cfg.Analysis.Timeout == 0 {
		cfg.Analysis.Timeout = DefaultTimeout
	}
	if cfg.Analysis.ReportURLExpiry == 0 {
		cfg.Analysis.ReportURLExpiry = DefaultReportURLExpiry
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Neo4j ─────────────────────────────────────────────────────────────────
	if cfg.Neo4j.URI == "" {
		cfg.Neo4j.URI = DefaultNeo4jURI
	}
	if cfg.Neo4j.MaxConnectionPoolSize == 0 {
		cfg.Neo4j.MaxConnectionPoolSize = 50
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.RequestTopic == "" {
		cfg.Kafka.RequestTopic = DefaultKafkaRequestTopic
	}
	if cfg.Kafka.ResultTopic == "" {
		cfg.Kafka.ResultTopic = DefaultKafkaResultTopic
	}
	if cfg.Kafka.DeadLetterTopic == "" {
		cfg.Kafka.DeadLetterTopic = DefaultKafkaDeadLetter
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = 3
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
