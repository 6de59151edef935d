package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Backends
const (
	BACKEND_CLOUDANT = "cloudant"
	BACKEND_REDIS    = "redis"
	BACKEND_POSTGRES = "postgres"
	BACKEND_MEMORY   = "memory"
)

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const AIRPORTS_RESOURCE = "airports.json"

const MISSING_CLOUDANT_URL_MESSAGE = "`CLOUDANT_URL` is missing from config, please provide the url of database."

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: field %q: %s", e.Field, e.Message)
}

// Config holds all runtime configuration loaded from the environment.
type Config struct {
	HTTPPort int    `mapstructure:"http_port"`
	Backend  string `mapstructure:"airports_backend"`

	CloudantURL       string `mapstructure:"cloudant_url"`
	CloudantDB        string `mapstructure:"cloudant_db"`
	CloudantDesignDoc string `mapstructure:"cloudant_design_doc"`
	CloudantIndex     string `mapstructure:"cloudant_index"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	DatabaseURL   string `mapstructure:"database_url"`
	PostgresTable string `mapstructure:"postgres_table"`

	AirportsFixture string `mapstructure:"airports_fixture"`

	MaxRadiusMeters float64       `mapstructure:"max_radius_meters"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	SearchPageSize  int           `mapstructure:"search_page_size"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`

	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_port", 8080)
	v.SetDefault("airports_backend", BACKEND_CLOUDANT)
	v.SetDefault("cloudant_url", "")
	v.SetDefault("cloudant_db", "airportdb")
	v.SetDefault("cloudant_design_doc", "view1")
	v.SetDefault("cloudant_index", "geo")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("database_url", "")
	v.SetDefault("postgres_table", "airports")
	v.SetDefault("airports_fixture", GetResourcePath(AIRPORTS_RESOURCE))
	v.SetDefault("max_radius_meters", 1000000)
	v.SetDefault("default_limit", 50)
	v.SetDefault("search_page_size", 200)
	v.SetDefault("request_timeout", "30s")
	v.SetDefault("rate_limit_rps", 20)
	v.SetDefault("rate_limit_burst", 40)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}

// Load reads an optional .env file, then the environment, and validates the result.
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith is Load with a caller-provided viper, typically one with command
// line flags bound to it.
func LoadWith(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(v)
}

// LoadFrom reads configuration through v. Values already set on v win over
// the environment.
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, &ConfigError{Field: "HTTP_PORT", Message: "must be between 1 and 65535"})
	}

	switch c.Backend {
	case BACKEND_CLOUDANT:
		if c.CloudantURL == "" {
			errs = append(errs, &ConfigError{Field: "CLOUDANT_URL", Message: MISSING_CLOUDANT_URL_MESSAGE})
		}
		if c.CloudantDB == "" {
			errs = append(errs, &ConfigError{Field: "CLOUDANT_DB", Message: "cannot be empty"})
		}
	case BACKEND_REDIS:
		if c.RedisAddr == "" {
			errs = append(errs, &ConfigError{Field: "REDIS_ADDR", Message: "cannot be empty"})
		}
	case BACKEND_POSTGRES:
		if c.DatabaseURL == "" {
			errs = append(errs, &ConfigError{Field: "DATABASE_URL", Message: "required when AIRPORTS_BACKEND is postgres"})
		}
	case BACKEND_MEMORY:
		if c.AirportsFixture == "" {
			errs = append(errs, &ConfigError{Field: "AIRPORTS_FIXTURE", Message: "cannot be empty"})
		}
	default:
		errs = append(errs, &ConfigError{Field: "AIRPORTS_BACKEND", Message: fmt.Sprintf("unknown backend %q", c.Backend)})
	}

	if c.MaxRadiusMeters <= 0 {
		errs = append(errs, &ConfigError{Field: "MAX_RADIUS_METERS", Message: "must be positive"})
	}
	if c.DefaultLimit < 1 {
		errs = append(errs, &ConfigError{Field: "DEFAULT_LIMIT", Message: "must be at least 1"})
	}
	if c.SearchPageSize < 1 {
		errs = append(errs, &ConfigError{Field: "SEARCH_PAGE_SIZE", Message: "must be at least 1"})
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, &ConfigError{Field: "REQUEST_TIMEOUT", Message: "must be positive"})
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, &ConfigError{Field: "RATE_LIMIT_RPS", Message: "rate limits cannot be negative"})
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func GetResourcePath(resourceFile string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resourceFile)
}
