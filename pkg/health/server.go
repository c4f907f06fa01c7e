package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salonatlas/salon-service/internal/logger"
	"github.com/salonatlas/salon-service/pkg/consistency"
)

// Config holds the health server settings.
type Config struct {
	ServiceName    string
	Version        string
	Port           string
	Timeout        time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequiredTables []string
}

// Option configures the server.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		ServiceName:  "salon-service",
		Version:      "dev",
		Port:         ":8081",
		Timeout:      5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		RequiredTables: []string{
			"salons", "categories", "services", "salon_services", "reviews", "appointments",
		},
	}
}

// WithPort sets the listen address.
func WithPort(port string) Option {
	return func(c *Config) {
		c.Port = port
	}
}

// WithVersion sets the reported service version.
func WithVersion(version string) Option {
	return func(c *Config) {
		c.Version = version
	}
}

// WithRequiredTables overrides the table existence checks.
func WithRequiredTables(tables ...string) Option {
	return func(c *Config) {
		c.RequiredTables = tables
	}
}

// Server serves the health endpoints on its own listener.
type Server struct {
	config      Config
	health      *Health
	server      *http.Server
	pool        *pgxpool.Pool
	log         logger.Logger
	consManager *consistency.Manager
	maxDrift    int64
	timeout     time.Duration
}

// NewServer creates a health server with the standard check set.
func NewServer(pool *pgxpool.Pool, manager *consistency.Manager, log logger.Logger, opts ...Option) *Server {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	healthChecker := New(
		config.ServiceName,
		config.Version,
		WithTimeout(config.Timeout),
	)

	s := &Server{
		config:      config,
		health:      healthChecker,
		maxDrift:    5,
		timeout:     config.Timeout,
		consManager: manager,
		pool:        pool,
		log:         log,
	}

	s.setupChecks()
	s.setupRoutes()

	return s
}

func (s *Server) setupChecks() {
	s.health.AddCheck("database", PostgresChecker(s.pool))

	if len(s.config.RequiredTables) > 0 {
		s.health.AddCheck("required_tables", SimpleTableChecker(s.pool, s.config.RequiredTables))
	}

	if s.consManager != nil {
		s.health.AddCheck("snapshot", ConsistencyChecker(s.consManager, s.maxDrift, s.timeout))
	}

	s.log.Info("health checks configured",
		"service", s.config.ServiceName,
		"version", s.config.Version,
		"port", s.config.Port,
		"timeout", s.config.Timeout,
		"tables_check", len(s.config.RequiredTables) > 0,
		"snapshot_check", s.consManager != nil,
	)
}

func (s *Server) setupRoutes() {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/live", s.liveHandler)
	mux.HandleFunc("/info", s.infoHandler)

	s.server = &http.Server{
		Addr:         s.config.Port,
		Handler:      mux,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := s.health.Check(r.Context())

	statusCode := http.StatusOK
	if response.Status == StatusDown {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

func (s *Server) liveHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ALIVE"))
}

func (s *Server) infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	info := map[string]any{
		"service":    s.config.ServiceName,
		"version":    s.config.Version,
		"go_version": runtime.Version(),
		"endpoints": map[string]string{
			"health": "/health",
			"live":   "/live",
			"info":   "/info",
		},
	}

	json.NewEncoder(w).Encode(info)
}

// Start runs the health server until it is shut down.
func (s *Server) Start() error {
	s.log.Info("starting health check server",
		"address", s.server.Addr,
		"service", s.config.ServiceName,
		"version", s.config.Version,
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("health server error: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down health check server")
	return s.server.Shutdown(ctx)
}

// IsHealthy reports whether every check passes.
func (s *Server) IsHealthy(ctx context.Context) bool {
	response := s.health.Check(ctx)
	return response.Status == StatusUp
}
