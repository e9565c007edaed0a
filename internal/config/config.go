package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Kafka     KafkaConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Realtime  RealtimeConfig
	Logging   LoggingConfig
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database specific configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// AuthConfig holds authentication specific configuration
type AuthConfig struct {
	JWTSecret            string
	JWTIssuer            string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

// KafkaConfig holds Kafka specific configuration
type KafkaConfig struct {
	Enabled  bool
	Brokers  []string
	ClientID string
	Topics   map[string]string
}

// RedisConfig holds Redis specific configuration
type RedisConfig struct {
	Enabled  bool
	URL      string
	Password string
	DB       int
}

// RateLimitConfig holds the Redis-backed rate limiter configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
}

// StorageConfig holds document blob storage configuration
type StorageConfig struct {
	Type  string
	Local LocalStorageConfig
	S3    S3StorageConfig
}

// LocalStorageConfig holds local filesystem storage configuration
type LocalStorageConfig struct {
	BasePath string
	BaseURL  string
}

// S3StorageConfig holds S3 storage configuration
type S3StorageConfig struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	BaseURL   string
}

// RealtimeConfig holds the outbox poller configuration
type RealtimeConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads the configuration from file and environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Read from environment variables
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks for configuration without which the service cannot run.
// A missing database connection is fatal at startup rather than degraded.
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return errors.New("database host, user and dbname are required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwtSecret is required")
	}
	if c.Storage.Type == "s3" && c.Storage.S3.Bucket == "" {
		return errors.New("storage.s3.bucket is required for s3 storage")
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "10s")
	v.SetDefault("server.idleTimeout", "120s")

	// Database defaults
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", "30m")

	// Auth defaults
	v.SetDefault("auth.jwtIssuer", "moving-portal")
	v.SetDefault("auth.accessTokenDuration", "15m")
	v.SetDefault("auth.refreshTokenDuration", "168h")

	// Kafka topic defaults
	v.SetDefault("kafka.clientID", "moving-portal")
	v.SetDefault("kafka.topics.notifications", "portal-notifications")
	v.SetDefault("kafka.topics.moves", "portal-move-events")

	// Rate limit defaults
	v.SetDefault("rateLimit.enabled", false)
	v.SetDefault("rateLimit.requestsPerMinute", 120)

	// Storage defaults
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local.basePath", "./data/documents")
	v.SetDefault("storage.local.baseURL", "http://localhost:8080/files")

	// Realtime defaults
	v.SetDefault("realtime.pollInterval", "1s")
	v.SetDefault("realtime.batchSize", 100)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
