package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/salonatlas/salon-service/internal/logger"
)

// Config is the full service configuration, loaded from config.yaml with
// SALON_-prefixed environment overrides.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	DB      DBConfig      `mapstructure:"db" validate:"required"`
	Logger  logger.Config `mapstructure:"logger" validate:"required"`
	Health  HealthConfig  `mapstructure:"health"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Loader  LoaderConfig  `mapstructure:"loader"`
	Admin   AdminConfig   `mapstructure:"admin" validate:"required"`
}

// ServerConfig holds settings for the public API listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       int           `mapstructure:"rate_limit"`
	RatePeriod      time.Duration `mapstructure:"rate_period"`
}

// DBConfig holds the PostgreSQL connection settings.
type DBConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// HealthConfig holds settings for the health listener.
type HealthConfig struct {
	Addr string `mapstructure:"addr"`
}

// MetricsConfig holds settings for the metrics listener.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoaderConfig controls the start-up pool load and background refresh.
type LoaderConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// AdminConfig holds the admin API token.
type AdminConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

// Load reads the config file from the given path (or the working directory
// when empty), applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("SALON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about. Keys with
	// no default must be bound explicitly or Unmarshal never sees their env
	// values on the file-less path.
	for _, key := range []string{"db.url", "admin.token", "logger.output_path"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine: defaults plus env must then be complete.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.rate_period", time.Minute)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")

	v.SetDefault("health.addr", "0.0.0.0:8081")
	v.SetDefault("metrics.addr", "0.0.0.0:9090")

	v.SetDefault("loader.refresh_interval", 5*time.Minute)
}
