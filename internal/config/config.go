// Package config defines the configuration structures for molgraph.  Only
// plain data types and validation live here; loading is in loader.go.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// RateLimitRPS is the per-client request rate; 0 disables rate limiting.
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
}

// ParserConfig holds SMILES parser limits and the hydrogen valence model.
type ParserConfig struct {
	MaxInputLength        int     `mapstructure:"max_input_length"`
	AromaticBondElectrons float64 `mapstructure:"aromatic_bond_electrons"`
	AromaticAtomPenalty   float64 `mapstructure:"aromatic_atom_penalty"`
	MaxExplicitHydrogens  int     `mapstructure:"max_explicit_hydrogens"`
	MaxCharge             int     `mapstructure:"max_charge"`
}

// AnalysisConfig holds structural analysis parameters.
type AnalysisConfig struct {
	// RingMaxLength bounds cycle length; 0 means unbounded.
	RingMaxLength int `mapstructure:"ring_max_length"`
	// TieBreak names the longest-chain policy: "all" | "carbon-endpoints".
	TieBreak     string        `mapstructure:"tie_break"`
	Workers      int           `mapstructure:"workers"`
	BatchWorkers int           `mapstructure:"batch_workers"`
	MaxBatchSize int           `mapstructure:"max_batch_size"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	Timeout      time.Duration `mapstructure:"timeout"`
	// ReportURLExpiry is the lifetime of presigned batch report links.
	ReportURLExpiry time.Duration `mapstructure:"report_url_expiry"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string `mapstructure:"format"` // "json" | "text"
	Output           string `mapstructure:"output"`
	EnableCaller     bool   `mapstructure:"enable_caller"`
	EnableStacktrace bool   `mapstructure:"enable_stacktrace"`
}

// DatabaseConfig holds PostgreSQL connection parameters.  Persistence is
// optional; it is skipped when Enabled is false.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN renders the pgx connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// Neo4jConfig holds the molecule graph export connection.
type Neo4jConfig struct {
	Enabled               bool          `mapstructure:"enabled"`
	URI                   string        `mapstructure:"uri"`
	User                  string        `mapstructure:"user"`
	Password              string        `mapstructure:"password"`
	Database              string        `mapstructure:"database"`
	MaxConnectionPoolSize int           `mapstructure:"max_connection_pool_size"`
	ConnectionTimeout     time.Duration `mapstructure:"connection_timeout"`
}

// KafkaConfig holds the asynchronous analysis pipeline parameters.
type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	GroupID         string        `mapstructure:"group_id"`
	RequestTopic    string        `mapstructure:"request_topic"`
	ResultTopic     string        `mapstructure:"result_topic"`
	DeadLetterTopic string        `mapstructure:"dead_letter_topic"`
	AutoOffsetReset string        `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	BatchSize       int           `mapstructure:"batch_size"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
}

// MinIOConfig holds object-storage parameters for batch report archives.
type MinIOConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig controls the Prometheus exposition.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Parser   ParserConfig   `mapstructure:"parser"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Neo4j    Neo4jConfig    `mapstructure:"neo4j"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of a fully-populated Config and
// returns the first problem found.  Optional backends are only checked when
// enabled.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Parser.MaxInputLength < 1 {
		return fmt.Errorf("config: parser.max_input_length must be >= 1, got %d", c.Parser.MaxInputLength)
	}
	if c.Parser.AromaticBondElectrons <= 0 || c.Parser.AromaticBondElectrons > 2 {
		return fmt.Errorf("config: parser.aromatic_bond_electrons %.2f is out of range (0, 2]", c.Parser.AromaticBondElectrons)
	}
	if c.Parser.MaxExplicitHydrogens < 0 {
		return fmt.Errorf("config: parser.max_explicit_hydrogens must be >= 0, got %d", c.Parser.MaxExplicitHydrogens)
	}
	if c.Parser.MaxCharge < 0 {
		return fmt.Errorf("config: parser.max_charge must be >= 0, got %d", c.Parser.MaxCharge)
	}
	if c.Parser.AromaticAtomPenalty < 0 {
		return fmt.Errorf("config: parser.aromatic_atom_penalty must be >= 0, got %.2f", c.Parser.AromaticAtomPenalty)
	}

	if c.Analysis.RingMaxLength < 0 {
		return fmt.Errorf("config: analysis.ring_max_length must be >= 0, got %d", c.Analysis.RingMaxLength)
	}
	switch c.Analysis.TieBreak {
	case "all", "carbon-endpoints":
	default:
		return fmt.Errorf("config: analysis.tie_break %q is invalid; expected all|carbon-endpoints", c.Analysis.TieBreak)
	}
	if c.Analysis.Workers < 1 {
		return fmt.Errorf("config: analysis.workers must be >= 1, got %d", c.Analysis.Workers)
	}
	if c.Analysis.MaxBatchSize < 1 {
		return fmt.Errorf("config: analysis.max_batch_size must be >= 1, got %d", c.Analysis.MaxBatchSize)
	}
	if c.Analysis.ReportURLExpiry < 0 {
		return fmt.Errorf("config: analysis.report_url_expiry must be >= 0, got %s", c.Analysis.ReportURLExpiry)
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("config: database.user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required")
		}
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
		}
	}

	if c.Neo4j.Enabled && c.Neo4j.URI == "" {
		return fmt.Errorf("config: neo4j.uri is required")
	}

	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}
	if c.Kafka.GroupID == "" {
		return fmt.Errorf("config: kafka.group_id is required")
	}

	if c.MinIO.Enabled && c.MinIO.Bucket == "" {
		return fmt.Errorf("config: minio.bucket is required")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|text", c.Log.Format)
	}

	return nil
}
