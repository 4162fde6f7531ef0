// VoltGuard Core - Electrical Telemetry & Anomaly Detection
//
// This is the main entry point for the VoltGuard Core API service.
// VoltGuard ingests multi-channel electrical telemetry from household
// sensors, detects anomalous load patterns with a statistical baseline
// model and per-sensor-type rules, and serves alerts, aggregates and
// reports to dashboards.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/voltguard/voltguard-core/migrations"

	"github.com/voltguard/voltguard-core/internal/api"
	"github.com/voltguard/voltguard-core/internal/auth"
	"github.com/voltguard/voltguard-core/internal/detector"
	"github.com/voltguard/voltguard-core/internal/infrastructure/config"
	"github.com/voltguard/voltguard-core/internal/infrastructure/database"
	"github.com/voltguard/voltguard-core/internal/infrastructure/influxdb"
	"github.com/voltguard/voltguard-core/internal/infrastructure/logging"
	"github.com/voltguard/voltguard-core/internal/infrastructure/mqtt"
	"github.com/voltguard/voltguard-core/internal/sensor"
	"github.com/voltguard/voltguard-core/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability.
func run(ctx context.Context) error {
	// Local .env files override nothing already in the environment
	//nolint:errcheck // a missing .env file is fine
	godotenv.Load()

	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting VoltGuard Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	// Open database and apply migrations
	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Fit the baseline model against synthetic normal usage
	start := time.Now()
	model := detector.NewBaseline(cfg.Detector, func() float64 {
		return float64(time.Now().UnixNano()) / 1e9
	})
	log.Info("baseline model fitted",
		"samples", cfg.Detector.BaselineSamples,
		"contamination", cfg.Detector.Contamination,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Wire repositories and services
	users := auth.NewUserRepository(db.DB)
	sensors := sensor.NewRepository(db.DB)
	readings := telemetry.NewReadingRepository(db.DB)
	anomalies := telemetry.NewAnomalyRepository(db.DB)

	// Interface values must stay nil when the backing client is absent
	var mirror telemetry.ReadingMirror
	if influxClient != nil {
		mirror = influxClient
	}
	var alerts telemetry.AlertPublisher
	if mqttClient != nil {
		alerts = mqttClient
	}

	telemetrySvc := telemetry.NewService(db.DB, sensors, readings, anomalies, model, log, mirror, alerts)

	// Start the API server
	server, err := api.New(api.Deps{
		Config:    cfg.API,
		Security:  cfg.Security,
		Logger:    log,
		Auth:      auth.NewService(users),
		Users:     users,
		Sensors:   sensors,
		Readings:  readings,
		Anomalies: anomalies,
		Telemetry: telemetrySvc,
		Seeder:    telemetry.NewSeeder(db.DB, users, sensors),
		MQTT:      mqttClient,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses VOLTGUARD_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("VOLTGUARD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies infrastructure connections. mqttClient and
// influxClient may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}
