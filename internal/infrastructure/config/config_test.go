package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfigFile(t, "{}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want 8080", cfg.API.Port)
	}
	if cfg.Database.Path != "./data/voltguard.db" {
		t.Errorf("Database.Path = %q, want default", cfg.Database.Path)
	}
	if !cfg.Database.WALMode {
		t.Error("Database.WALMode should default to true")
	}
	if cfg.Security.JWT.TokenTTLDays != 7 {
		t.Errorf("TokenTTLDays = %d, want 7", cfg.Security.JWT.TokenTTLDays)
	}
	if cfg.Detector.BaselineSamples != 10000 {
		t.Errorf("BaselineSamples = %d, want 10000", cfg.Detector.BaselineSamples)
	}
	if cfg.Detector.Contamination != 0.02 {
		t.Errorf("Contamination = %v, want 0.02", cfg.Detector.Contamination)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
api:
  port: 9090
database:
  path: /tmp/test.db
detector:
  baseline_samples: 500
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want /tmp/test.db", cfg.Database.Path)
	}
	if cfg.Detector.BaselineSamples != 500 {
		t.Errorf("BaselineSamples = %d, want 500", cfg.Detector.BaselineSamples)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
database:
  path: /tmp/from-file.db
`)

	t.Setenv("VOLTGUARD_DATABASE_PATH", "/tmp/from-env.db")
	t.Setenv("VOLTGUARD_JWT_SECRET", "env-secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/from-env.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Security.JWT.Secret != "env-secret" {
		t.Errorf("JWT.Secret = %q, want env override", cfg.Security.JWT.Secret)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load() should fail for missing file")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty database path", func(c *Config) { c.Database.Path = "" }},
		{"port out of range", func(c *Config) { c.API.Port = 99999 }},
		{"empty jwt secret", func(c *Config) { c.Security.JWT.Secret = "" }},
		{"zero token ttl", func(c *Config) { c.Security.JWT.TokenTTLDays = 0 }},
		{"zero baseline samples", func(c *Config) { c.Detector.BaselineSamples = 0 }},
		{"contamination too high", func(c *Config) { c.Detector.Contamination = 1.5 }},
		{"mqtt enabled without host", func(c *Config) {
			c.MQTT.Enabled = true
			c.MQTT.Broker.Host = ""
		}},
		{"influx enabled without url", func(c *Config) {
			c.InfluxDB.Enabled = true
			c.InfluxDB.URL = ""
			c.InfluxDB.Bucket = "telemetry"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should return an error")
			}
		})
	}
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	if err := defaultConfig().Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}
