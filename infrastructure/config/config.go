// Package config loads service configuration from defaults, an optional YAML
// file named by CONFIG_FILE, and environment variables, in that order of
// increasing priority.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// Almanac backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
	BackendDynamoDB = "dynamodb"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress   string        `yaml:"server_address"`
	Environment     string        `yaml:"environment"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Logging
	LogLevel string `yaml:"log_level"`

	Almanac  AlmanacConfig  `yaml:"almanac"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
	Breaker  BreakerConfig  `yaml:"breaker"`

	// AWS configuration
	AWSRegion    string `yaml:"aws_region"`
	EventBusName string `yaml:"event_bus_name"`

	// Lambda configuration
	IsLambda bool `yaml:"is_lambda"`

	// Query cache TTL in seconds; zero disables caching
	CacheTTL int `yaml:"cache_ttl"`

	// Feature flags
	EnableMetrics  bool     `yaml:"enable_metrics"`
	EnableTracing  bool     `yaml:"enable_tracing"`
	EnableEvents   bool     `yaml:"enable_events"`
	EnableCORS     bool     `yaml:"enable_cors"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// AlmanacConfig selects and tunes the almanac store.
type AlmanacConfig struct {
	Backend      string        `yaml:"backend"`
	DSN          string        `yaml:"dsn"`
	SeedFile     string        `yaml:"seed_file"`
	SeedChecksum string        `yaml:"seed_checksum"`
	HotReload    bool          `yaml:"hot_reload"`
	Timeout      time.Duration `yaml:"timeout"`

	// KeepCivilDayOnCutover stops a birth before the cutover on a cutover day
	// from taking the previous day's day pillar.
	KeepCivilDayOnCutover bool `yaml:"keep_civil_day_on_cutover"`
}

// DynamoDBConfig names the almanac table and its indexes.
type DynamoDBConfig struct {
	Table        string `yaml:"table"`
	LunarIndex   string `yaml:"lunar_index"`
	CutoverIndex string `yaml:"cutover_index"`
	Endpoint     string `yaml:"endpoint"`
}

// BreakerConfig tunes the almanac circuit breaker.
type BreakerConfig struct {
	MaxRequests      uint32        `yaml:"max_requests"`
	Interval         time.Duration `yaml:"interval"`
	OpenTimeout      time.Duration `yaml:"open_timeout"`
	FailureThreshold float64       `yaml:"failure_threshold"`
	MinRequests      uint32        `yaml:"min_requests"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		ServerAddress:   ":8080",
		Environment:     "development",
		ShutdownTimeout: 15 * time.Second,
		LogLevel:        "info",
		Almanac: AlmanacConfig{
			Backend: BackendMemory,
			Timeout: 2 * time.Second,
		},
		DynamoDB: DynamoDBConfig{
			Table:        "manses",
			LunarIndex:   "GSI1",
			CutoverIndex: "GSI2",
		},
		Breaker: BreakerConfig{
			MaxRequests:      5,
			Interval:         30 * time.Second,
			OpenTimeout:      60 * time.Second,
			FailureThreshold: 0.8,
			MinRequests:      5,
		},
		AWSRegion:      "ap-northeast-2",
		EventBusName:   "mansereok-events",
		CacheTTL:       300,
		EnableMetrics:  true,
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
	}
}

// LoadConfig loads configuration from CONFIG_FILE (if set) and environment
// variables.
func LoadConfig() (*Config, error) {
	return LoadConfigWith(nil)
}

// LoadConfigWith is LoadConfig with command-line overrides applied last,
// before validation.
func LoadConfigWith(override func(*Config)) (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.loadEnvironment()
	if override != nil {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return pkgerrors.NewConfigurationError("cannot read config file " + path).WithCause(err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return pkgerrors.NewConfigurationError("invalid config file " + path).WithCause(err)
	}
	return nil
}

func (c *Config) loadEnvironment() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.Almanac.Backend = strings.ToLower(getEnv("ALMANAC_BACKEND", c.Almanac.Backend))
	c.Almanac.DSN = getEnv("ALMANAC_DSN", c.Almanac.DSN)
	c.Almanac.SeedFile = getEnv("ALMANAC_SEED_FILE", c.Almanac.SeedFile)
	c.Almanac.SeedChecksum = getEnv("ALMANAC_SEED_CHECKSUM", c.Almanac.SeedChecksum)
	c.Almanac.HotReload = getEnvBool("ALMANAC_HOT_RELOAD", c.Almanac.HotReload)
	c.Almanac.Timeout = getEnvDuration("ALMANAC_TIMEOUT", c.Almanac.Timeout)
	c.Almanac.KeepCivilDayOnCutover = getEnvBool("KEEP_CIVIL_DAY_ON_CUTOVER", c.Almanac.KeepCivilDayOnCutover)

	c.DynamoDB.Table = getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", c.DynamoDB.Table))
	c.DynamoDB.LunarIndex = getEnv("LUNAR_INDEX_NAME", c.DynamoDB.LunarIndex)
	c.DynamoDB.CutoverIndex = getEnv("CUTOVER_INDEX_NAME", c.DynamoDB.CutoverIndex)
	c.DynamoDB.Endpoint = getEnv("DYNAMODB_ENDPOINT", c.DynamoDB.Endpoint)

	c.Breaker.MaxRequests = uint32(getEnvInt("BREAKER_MAX_REQUESTS", int(c.Breaker.MaxRequests)))
	c.Breaker.Interval = getEnvDuration("BREAKER_INTERVAL", c.Breaker.Interval)
	c.Breaker.OpenTimeout = getEnvDuration("BREAKER_OPEN_TIMEOUT", c.Breaker.OpenTimeout)
	c.Breaker.FailureThreshold = getEnvFloat("BREAKER_FAILURE_THRESHOLD", c.Breaker.FailureThreshold)
	c.Breaker.MinRequests = uint32(getEnvInt("BREAKER_MIN_REQUESTS", int(c.Breaker.MinRequests)))

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)
	c.IsLambda = getEnvBool("IS_LAMBDA", c.IsLambda || os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "")
	c.CacheTTL = getEnvInt("CACHE_TTL", c.CacheTTL)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableEvents = getEnvBool("ENABLE_EVENTS", c.EnableEvents)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = strings.Split(origins, ",")
	}
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.Almanac.Backend {
	case BackendMemory:
		if c.Almanac.SeedFile == "" {
			return pkgerrors.NewConfigurationError("ALMANAC_SEED_FILE is required for the memory backend")
		}
	case BackendSQLite, BackendPostgres, BackendMySQL:
		if c.Almanac.DSN == "" {
			return pkgerrors.NewConfigurationError(
				fmt.Sprintf("ALMANAC_DSN is required for the %s backend", c.Almanac.Backend))
		}
	case BackendDynamoDB:
		if c.DynamoDB.Table == "" || c.DynamoDB.LunarIndex == "" || c.DynamoDB.CutoverIndex == "" {
			return pkgerrors.NewConfigurationError("DynamoDB table and index names are required")
		}
	default:
		return pkgerrors.NewConfigurationError(fmt.Sprintf("unknown almanac backend %q", c.Almanac.Backend))
	}

	if c.Almanac.HotReload && c.Almanac.Backend != BackendMemory {
		return pkgerrors.NewConfigurationError("ALMANAC_HOT_RELOAD only applies to the memory backend")
	}
	if c.Breaker.FailureThreshold <= 0 || c.Breaker.FailureThreshold > 1 {
		return pkgerrors.NewConfigurationError("BREAKER_FAILURE_THRESHOLD must be in (0, 1]")
	}
	if c.CacheTTL < 0 {
		return pkgerrors.NewConfigurationError("CACHE_TTL must not be negative")
	}
	if c.IsProduction() && c.EnableEvents && c.EventBusName == "" {
		return pkgerrors.NewConfigurationError("EVENT_BUS_NAME is required when events are enabled")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("2s") or plain milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
