// Package config holds the pagestats service configuration.
package config

import (
	"fmt"
	"time"

	infraconfig "github.com/jonesrussell/pagestats/infrastructure/config"
	infraevents "github.com/jonesrussell/pagestats/infrastructure/events"
	"github.com/jonesrussell/pagestats/internal/fetcher"
)

// Default configuration values.
const (
	defaultServiceName  = "pagestats"
	defaultServicePort  = 8050
	defaultVersion      = "0.1.0"
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"

	defaultDBHost         = "localhost"
	defaultDBPort         = 5432
	defaultDBName         = "pagestats"
	defaultDBUser         = "postgres"
	defaultDBSSLMode      = "disable"
	defaultDBMaxOpenConns = 25
	defaultDBMaxIdleConns = 5
	defaultDBConnLifetime = 5 * time.Minute

	defaultRedisAddress = "localhost:6379"
)

// Config holds the application configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Fetcher  FetcherConfig  `yaml:"fetcher"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `env:"APP_VERSION"    yaml:"version"`
	Port    int    `env:"PAGESTATS_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"      yaml:"debug"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host            string        `env:"POSTGRES_PAGESTATS_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_PAGESTATS_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_PAGESTATS_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_PAGESTATS_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_PAGESTATS_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_PAGESTATS_SSLMODE"  yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// FetcherConfig controls outbound page fetches.
type FetcherConfig struct {
	Timeout      time.Duration `env:"FETCHER_TIMEOUT"        yaml:"timeout"`
	MaxBodyBytes int64         `env:"FETCHER_MAX_BODY_BYTES" yaml:"max_body_bytes"`
	UserAgent    string        `env:"FETCHER_USER_AGENT"     yaml:"user_agent"`
}

// RedisConfig controls the optional page event publisher.
type RedisConfig struct {
	Enabled  bool   `env:"REDIS_EVENTS_ENABLED" yaml:"enabled"`
	Address  string `env:"REDIS_ADDRESS"        yaml:"address"`
	Password string `env:"REDIS_PASSWORD"       yaml:"password"`
	DB       int    `env:"REDIS_DB"             yaml:"db"`
	Stream   string `env:"REDIS_EVENTS_STREAM"  yaml:"stream"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return infraconfig.LoadWithDefaults[Config](path, SetDefaults)
}

// SetDefaults fills every unset field.
func SetDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setFetcherDefaults(&cfg.Fetcher)
	setRedisDefaults(&cfg.Redis)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
	if db.MaxOpenConns == 0 {
		db.MaxOpenConns = defaultDBMaxOpenConns
	}
	if db.MaxIdleConns == 0 {
		db.MaxIdleConns = defaultDBMaxIdleConns
	}
	if db.ConnMaxLifetime == 0 {
		db.ConnMaxLifetime = defaultDBConnLifetime
	}
}

func setFetcherDefaults(f *FetcherConfig) {
	if f.Timeout == 0 {
		f.Timeout = fetcher.DefaultTimeout
	}
	if f.MaxBodyBytes == 0 {
		f.MaxBodyBytes = fetcher.DefaultMaxBodyBytes
	}
	if f.UserAgent == "" {
		f.UserAgent = fetcher.DefaultUserAgent
	}
}

func setRedisDefaults(r *RedisConfig) {
	if r.Address == "" {
		r.Address = defaultRedisAddress
	}
	if r.Stream == "" {
		r.Stream = infraevents.StreamName
	}
}

func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("database.host", c.Database.Host); err != nil {
		return err
	}
	if err := infraconfig.ValidatePort("database.port", c.Database.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("database.database", c.Database.Database); err != nil {
		return err
	}
	if err := infraconfig.ValidatePositive("fetcher.timeout", c.Fetcher.Timeout); err != nil {
		return err
	}
	if err := infraconfig.ValidatePositive("fetcher.max_body_bytes", c.Fetcher.MaxBodyBytes); err != nil {
		return err
	}
	if c.Redis.Enabled {
		if err := infraconfig.ValidateRequired("redis.address", c.Redis.Address); err != nil {
			return err
		}
	}
	if err := infraconfig.ValidateLogLevel("logging.level", c.Logging.Level); err != nil {
		return err
	}
	return infraconfig.ValidateLogFormat("logging.format", c.Logging.Format)
}
