package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by every setting.
const envPrefix = "MOLGRAPH"

// newViper builds a Viper instance reading YAML with MOLGRAPH_ env overrides.
// Nested keys map "." to "_": "database.host" resolves to MOLGRAPH_DATABASE_HOST.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerKeys(v)
	return v
}

// registerKeys makes every key known to viper so that Unmarshal picks up
// environment overrides even when no config file mentions the key.
func registerKeys(v *viper.Viper) {
	defaults := map[string]any{
		"server.port":                    DefaultServerPort,
		"server.mode":                    DefaultServerMode,
		"server.read_timeout":            time.Duration(0),
		"server.write_timeout":           time.Duration(0),
		"server.max_body_size":           DefaultMaxBodySize,
		"server.shutdown_timeout":        DefaultShutdownTimeout,
		"server.rate_limit_rps":          0.0,
		"server.rate_limit_burst":        0,
		"parser.max_input_length":        DefaultMaxInputLength,
		"parser.aromatic_bond_electrons": DefaultAromaticBondElectrons,
		"parser.aromatic_atom_penalty":   DefaultAromaticAtomPenalty,
		"parser.max_explicit_hydrogens":  DefaultMaxExplicitHydrogens,
		"parser.max_charge":              DefaultMaxCharge,
		"analysis.ring_max_length":       0,
		"analysis.tie_break":             DefaultTieBreak,
		"analysis.workers":               DefaultWorkers,
		"analysis.batch_workers":         DefaultBatchWorkers,
		"analysis.max_batch_size":        DefaultMaxBatchSize,
		"analysis.cache_ttl":             DefaultCacheTTL,
		"analysis.timeout":               DefaultTimeout,
		"analysis.report_url_expiry":     DefaultReportURLExpiry,
		"log.level":                      DefaultLogLevel,
		"log.format":                     DefaultLogFormat,
		"log.output":                     "stdout",
		"log.enable_caller":              false,
		"log.enable_stacktrace":          false,
		"database.enabled":               false,
		"database.host":                  DefaultDBHost,
		"database.port":                  DefaultDBPort,
		"database.user":                  "",
		"database.password":              "",
		"database.db_name":               DefaultDBName,
		"database.ssl_mode":              "disable",
		"database.max_conns":             DefaultDBMaxConns,
		"database.max_idle_conns":        0,
		"database.auto_migrate":          false,
		"redis.enabled":                  false,
		"redis.addr":                     DefaultRedisAddr,
		"redis.password":                 "",
		"redis.db":                       0,
		"redis.pool_size":                0,
		"redis.key_prefix":               DefaultRedisKeyPrefix,
		"neo4j.enabled":                  false,
		"neo4j.uri":                      DefaultNeo4jURI,
		"neo4j.user":                     "",
		"neo4j.password":                 "",
		"neo4j.database":                 "",
		"neo4j.max_connection_pool_size": 50,
		"kafka.brokers":                  []string{DefaultKafkaBroker},
		"kafka.group_id":                 DefaultKafkaGroupID,
		"kafka.request_topic":            DefaultKafkaRequestTopic,
		"kafka.result_topic":             DefaultKafkaResultTopic,
		"kafka.dead_letter_topic":        DefaultKafkaDeadLetter,
		"kafka.auto_offset_reset":        "earliest",
		"kafka.max_retries":              3,
		"minio.enabled":                  false,
		"minio.endpoint":                 DefaultMinIOEndpoint,
		"minio.access_key":               "",
		"minio.secret_key":               "",
		"minio.bucket":                   DefaultMinIOBucket,
		"minio.use_ssl":                  false,
		"minio.prefix":                   "",
		"metrics.enabled":                true,
		"metrics.namespace":              DefaultMetricsNamespace,
		"metrics.path":                   DefaultMetricsPath,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// Load reads the YAML file at configPath, merges MOLGRAPH_* environment
// overrides, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from MOLGRAPH_* environment variables alone.
//
//	MOLGRAPH_<SECTION>_<FIELD>   e.g.  MOLGRAPH_PARSER_MAX_INPUT_LENGTH
//
// Slice values such as kafka.brokers are comma separated.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch re-reads configPath whenever it changes on disk and hands the new
// Config to onChange.  Only settings that are safe to swap at runtime (the
// log level, analysis defaults) should be applied by the callback.  A change
// that fails to parse or validate is reported to onError, if set, and the
// callback is skipped.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad is Load for main(): any error panics.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
