package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Routing RoutingConfig `mapstructure:"routing"`
	FIRMS   FIRMSConfig   `mapstructure:"firms"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Safety  SafetyConfig  `mapstructure:"safety"`
	Sentry  SentryConfig  `mapstructure:"sentry"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
}

type RoutingConfig struct {
	MapboxToken string        `mapstructure:"mapbox_token"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type FIRMSConfig struct {
	MapKey            string        `mapstructure:"map_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Source            string        `mapstructure:"source"`
	DayRange          int           `mapstructure:"day_range"`
	Timeout           time.Duration `mapstructure:"timeout"`
	QueryRadiusMeters float64       `mapstructure:"query_radius_meters"`
}

// CatalogConfig selects the destination catalog: DatabaseURL wins when set,
// otherwise Path is read as JSON.
type CatalogConfig struct {
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database_url"`
}

// An empty URL disables the fire snapshot cache.
type RedisConfig struct {
	URL     string        `mapstructure:"url"`
	FireTTL time.Duration `mapstructure:"fire_ttl"`
}

type SafetyConfig struct {
	RadiusMeters float64 `mapstructure:"radius_meters"`
}

type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

// Get returns the environment variable key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("routing.mapbox_token", "")
	v.SetDefault("routing.base_url", "https://api.mapbox.com")
	v.SetDefault("routing.timeout", 10*time.Second)
	v.SetDefault("firms.map_key", "")
	v.SetDefault("firms.base_url", "https://firms.modaps.eosdis.nasa.gov")
	v.SetDefault("firms.source", "VIIRS_SNPP_NRT")
	v.SetDefault("firms.day_range", 1)
	v.SetDefault("firms.timeout", 15*time.Second)
	v.SetDefault("firms.query_radius_meters", 50000.0)
	v.SetDefault("catalog.path", "data/destinations.json")
	v.SetDefault("catalog.database_url", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.fire_ttl", 5*time.Minute)
	v.SetDefault("safety.radius_meters", 5000.0)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
}

// Load reads .env (if present), an optional config.yaml, and EVAC_* environment
// variables, in increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	v := viper.New()
	setDefaults(v)
	// Platforms that inject PORT; EVAC_SERVER_PORT and config.yaml still win.
	if port := Get("PORT", ""); port != "" {
		v.SetDefault("server.port", port)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config: read config file: %w", err)
		}
	}

	// EVAC_ROUTING_MAPBOX_TOKEN -> routing.mapbox_token
	v.SetEnvPrefix("EVAC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if strings.TrimSpace(c.Routing.MapboxToken) == "" {
		errs = append(errs, "routing.mapbox_token is required")
	}
	if c.Routing.Timeout <= 0 {
		errs = append(errs, "routing.timeout must be positive")
	}
	if c.FIRMS.DayRange < 1 || c.FIRMS.DayRange > 10 {
		errs = append(errs, fmt.Sprintf("firms.day_range must be 1-10, got %d", c.FIRMS.DayRange))
	}
	if c.FIRMS.QueryRadiusMeters <= 0 {
		errs = append(errs, "firms.query_radius_meters must be positive")
	}
	if c.Catalog.Path == "" && c.Catalog.DatabaseURL == "" {
		errs = append(errs, "catalog.path or catalog.database_url is required")
	}
	if c.Redis.URL != "" && c.Redis.FireTTL <= 0 {
		errs = append(errs, "redis.fire_ttl must be positive when redis.url is set")
	}
	if c.Safety.RadiusMeters <= 0 {
		errs = append(errs, "safety.radius_meters must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
