package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for VoltGuard Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Database Database `yaml:"database"`
	API      API      `yaml:"api"`
	MQTT     MQTT     `yaml:"mqtt"`
	InfluxDB InfluxDB `yaml:"influxdb"`
	Logging  Logging  `yaml:"logging"`
	Security Security `yaml:"security"`
	Detector Detector `yaml:"detector"`
}

// Database contains SQLite database settings.
type Database struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// API contains HTTP API server settings.
type API struct {
	Host     string      `yaml:"host"`
	Port     int         `yaml:"port"`
	Timeouts APITimeouts `yaml:"timeouts"`
	CORS     CORS        `yaml:"cors"`
}

// APITimeouts contains HTTP timeout settings (seconds).
type APITimeouts struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORS contains Cross-Origin Resource Sharing settings.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// MQTT contains MQTT broker connection settings.
// The broker is optional; when disabled, anomaly alerts are not published.
type MQTT struct {
	Enabled   bool          `yaml:"enabled"`
	Broker    MQTTBroker    `yaml:"broker"`
	Auth      MQTTAuth      `yaml:"auth"`
	QoS       int           `yaml:"qos"`
	Reconnect MQTTReconnect `yaml:"reconnect"`
}

// MQTTBroker contains MQTT broker connection details.
type MQTTBroker struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuth contains MQTT authentication credentials.
type MQTTAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnect contains MQTT reconnection settings (seconds / attempts).
type MQTTReconnect struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDB contains InfluxDB connection settings.
// When enabled, readings and anomaly scores are mirrored for dashboards.
type InfluxDB struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// Logging contains logging settings.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Security contains security settings.
type Security struct {
	JWT JWT `yaml:"jwt"`
}

// JWT contains bearer token settings.
type JWT struct {
	Secret       string `yaml:"secret"`
	TokenTTLDays int    `yaml:"token_ttl_days"`
}

// Detector contains baseline model fitting settings.
type Detector struct {
	// BaselineSamples is the number of synthetic rows fitted at startup.
	BaselineSamples int `yaml:"baseline_samples"`

	// Contamination is the fraction of fitting data treated as outliers
	// when fixing the decision boundary.
	Contamination float64 `yaml:"contamination"`

	// Seed makes the synthetic baseline deterministic across restarts.
	Seed int64 `yaml:"seed"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: VOLTGUARD_SECTION_KEY
// For example: VOLTGUARD_DATABASE_PATH, VOLTGUARD_JWT_SECRET
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration with env overrides applied.
// Used when no config file exists (local development, tests).
func Default() *Config {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	return cfg
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Database: Database{
			Path:        "./data/voltguard.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: API{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeouts{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		MQTT: MQTT{
			Enabled: false,
			Broker: MQTTBroker{
				Host:     "localhost",
				Port:     1883,
				ClientID: "voltguard-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnect{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		InfluxDB: InfluxDB{
			Enabled:       false,
			BatchSize:     100,
			FlushInterval: 5,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: Security{
			JWT: JWT{
				Secret:       "dev-secret-change-me",
				TokenTTLDays: 7,
			},
		},
		Detector: Detector{
			BaselineSamples: 10000,
			Contamination:   0.02,
			Seed:            42,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: VOLTGUARD_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VOLTGUARD_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("VOLTGUARD_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	if v := os.Getenv("VOLTGUARD_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("VOLTGUARD_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("VOLTGUARD_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	if v := os.Getenv("VOLTGUARD_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// IMPORTANT: always override in production.
	if v := os.Getenv("VOLTGUARD_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.Security.JWT.Secret == "" {
		errs = append(errs, "security.jwt.secret is required")
	}
	if c.Security.JWT.TokenTTLDays <= 0 {
		errs = append(errs, "security.jwt.token_ttl_days must be positive")
	}

	if c.Detector.BaselineSamples <= 0 {
		errs = append(errs, "detector.baseline_samples must be positive")
	}
	if c.Detector.Contamination <= 0 || c.Detector.Contamination >= 1 {
		errs = append(errs, "detector.contamination must be in (0, 1)")
	}

	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
