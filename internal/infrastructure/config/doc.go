// Package config loads and validates VoltGuard Core configuration.
//
// Configuration comes from three layers, each overriding the last:
// hardcoded defaults, a YAML file, and VOLTGUARD_* environment
// variables. Secrets (JWT signing key, broker credentials, InfluxDB
// token) should always arrive via environment in production.
package config
