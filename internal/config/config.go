package config

import (
	"fmt"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Campus  CampusConfig  `mapstructure:"campus" yaml:"campus"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// ServerConfig tunes the HTTP API server started by `campus-nav serve`.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	// RateLimit is requests per second per server; Burst is the bucket size.
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
	Burst     int     `mapstructure:"burst" yaml:"burst"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageBackend selects where tag and label stores persist their snapshots.
type StorageBackend string

const (
	BackendFile     StorageBackend = "file"
	BackendPostgres StorageBackend = "postgres"
)

// StorageConfig holds persistence settings. The file backend mirrors the
// single-writer local store contract; postgres is for server deployments.
type StorageConfig struct {
	Backend     StorageBackend `mapstructure:"backend" yaml:"backend"`
	DataDir     string         `mapstructure:"data_dir" yaml:"data_dir"`
	PostgresURL string         `mapstructure:"postgres_url" yaml:"postgres_url"`
}

// TagsPath returns the tag snapshot file location for the file backend.
func (s StorageConfig) TagsPath() string {
	return filepath.Join(s.DataDir, "tags.json")
}

// LabelsPath returns the label snapshot file location for the file backend.
func (s StorageConfig) LabelsPath() string {
	return filepath.Join(s.DataDir, "labels.json")
}

// CampusConfig points at the static campus dataset. When DataFile is empty
// the built-in dataset is used.
type CampusConfig struct {
	DataFile string `mapstructure:"data_file" yaml:"data_file"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "campus-nav")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Server --
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8420)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.rate_limit", 50.0)
	v.SetDefault("server.burst", 100)

	// -- Storage --
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.data_dir", defaultDataDir())
	v.SetDefault("storage.postgres_url", "")

	// -- Campus --
	v.SetDefault("campus.data_file", "")
}

// defaultDataDir resolves ~/.campus-nav, falling back to a relative directory
// when the home directory cannot be determined.
func defaultDataDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return ".campus-nav"
	}
	return filepath.Join(home, ".campus-nav")
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with defaults only.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("server.rate_limit must be positive")
	}
	if c.Server.Burst <= 0 {
		return fmt.Errorf("server.burst must be positive")
	}
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("storage.data_dir is required for the file backend")
		}
	case BackendPostgres:
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("storage.postgres_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("storage.backend must be %q or %q", BackendFile, BackendPostgres)
	}
	return nil
}
