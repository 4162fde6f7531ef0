package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/voltguard/voltguard-core/internal/auth"
	"github.com/voltguard/voltguard-core/internal/infrastructure/config"
	"github.com/voltguard/voltguard-core/internal/infrastructure/logging"
	"github.com/voltguard/voltguard-core/internal/infrastructure/mqtt"
	"github.com/voltguard/voltguard-core/internal/sensor"
	"github.com/voltguard/voltguard-core/internal/telemetry"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config    config.API
	Security  config.Security
	Logger    *logging.Logger
	Auth      *auth.Service
	Users     auth.UserRepository
	Sensors   sensor.Repository
	Readings  telemetry.ReadingRepository
	Anomalies telemetry.AnomalyRepository
	Telemetry *telemetry.Service
	Seeder    *telemetry.Seeder
	MQTT      *mqtt.Client // optional, nil when the broker is disabled
	Version   string
}

// Server is the HTTP API server for VoltGuard Core.
//
// It is created with New() and started with Start(); Close() drains
// in-flight requests.
type Server struct {
	cfg       config.API
	secCfg    config.Security
	logger    *logging.Logger
	auth      *auth.Service
	users     auth.UserRepository
	sensors   sensor.Repository
	readings  telemetry.ReadingRepository
	anomalies telemetry.AnomalyRepository
	telemetry *telemetry.Service
	seeder    *telemetry.Seeder
	mqtt      *mqtt.Client
	version   string
	server    *http.Server
}

// New creates an API server with the given dependencies. The server
// is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Auth == nil || deps.Users == nil {
		return nil, fmt.Errorf("auth service and user repository are required")
	}
	if deps.Sensors == nil || deps.Readings == nil || deps.Anomalies == nil {
		return nil, fmt.Errorf("sensor, reading and anomaly repositories are required")
	}
	if deps.Telemetry == nil {
		return nil, fmt.Errorf("telemetry service is required")
	}
	// MQTT is optional; shutdown commands degrade to log-only

	return &Server{
		cfg:       deps.Config,
		secCfg:    deps.Security,
		logger:    deps.Logger.With("component", "api"),
		auth:      deps.Auth,
		users:     deps.Users,
		sensors:   deps.Sensors,
		readings:  deps.Readings,
		anomalies: deps.Anomalies,
		telemetry: deps.Telemetry,
		seeder:    deps.Seeder,
		mqtt:      deps.MQTT,
		version:   deps.Version,
	}, nil
}

// Start begins listening for HTTP connections in a background
// goroutine. Stop with Close().
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the server, waiting up to 10 seconds
// for in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
