package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"fern-api"`
	Version                       string   `env:"APP_VERSION" env-default:"dev"`
	Port                          int      `env:"PORT" env-default:"3000"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	ShutdownTimeoutSeconds        int      `env:"HTTP_SERVER_SHUTDOWN_TIMEOUT_SECONDS" env-default:"15"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,PATCH,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// Database driver
	DatabaseDriver string `env:"DB_DRIVER" env-default:"postgres"`
	// Database host. Empty runs the in-memory store.
	DatabaseHost string `env:"DB_HOST" env-default:""`
	// Database port
	DatabasePort string `env:"DB_PORT" env-default:"5432"`
	// Database user
	DatabaseUserName string `env:"DB_USER_NAME" env-default:""`
	// Database user password
	DatabasePassword string `env:"DB_PASSWORD" env-default:""`
	// Database name
	DatabaseName string `env:"DB_NAME" env-default:"fern"`
	// Database SSL Mode
	DatabaseSSLMode string `env:"DB_SQL_MODE" env-default:"disable"`
	// Max Open Conns
	DatabaseMaxOpenConns int `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	// Max Idle Conns
	DatabaseMaxIdleConns int `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	// Conn Max Lifetime
	DatabaseConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	// Migration Folder Path
	DatabaseMigrationFolderPath string `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	// Database Migration Version
	DatabaseMigrationVersion int `env:"DB_MIGRATION_VERSION" env-default:"0"`
	// Database Migration Force
	DatabaseMigrationForce int `env:"DB_MIGRATION_FORCE" env-default:"0"`

	// Redis host. Empty disables distributed locking.
	RedisHost string `env:"REDIS_HOST" env-default:""`
	// Redis port
	RedisPort int `env:"REDIS_PORT" env-default:"6379"`
	// Redis password
	RedisPassword string `env:"REDIS_PASSWORD" env-default:""`
	// Redis database number
	RedisDB int `env:"REDIS_DB" env-default:"0"`
	// Lock TTL for one version allocation
	RedisLockTTL time.Duration `env:"REDIS_LOCK_TTL" env-default:"10s"`
	// How long a request waits for a busy config lock
	RedisLockWait time.Duration `env:"REDIS_LOCK_WAIT" env-default:"3s"`

	// Kafka brokers (comma-separated). Empty disables events.
	KafkaBrokers string `env:"KAFKA_BROKERS" env-default:""`
	// Kafka topic for config lifecycle events
	KafkaConfigTopic string `env:"KAFKA_CONFIG_TOPIC" env-default:"config-events"`

	// Retries after losing a version race
	SaveMaxRetries int `env:"SAVE_MAX_RETRIES" env-default:"3"`
	// Number of versions kept in the read cache. Zero disables it.
	VersionCacheSize int `env:"VERSION_CACHE_SIZE" env-default:"1024"`

	// Tracing settings
	// Enable OTLP tracing export (set to true to send traces to collector)
	OTLPEnabled bool `env:"OTLP_ENABLED" env-default:"false"`
	// OTLP collector endpoint
	OTLPEndpoint string `env:"OTLP_ENDPOINT" env-default:"localhost:4317"`
	// OTLP protocol (grpc or http)
	OTLPProtocol string `env:"OTLP_PROTOCOL" env-default:"grpc"`
	// Disable TLS for OTLP (for local development)
	OTLPInsecure bool `env:"OTLP_INSECURE" env-default:"true"`
}

// Load reads an optional .env file and then the environment.
func Load(envFiles ...string) (Config, error) {
	var cfg Config

	// a missing .env is normal outside local development
	_ = godotenv.Load(envFiles...)

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.SaveMaxRetries < 0 {
		return fmt.Errorf("SAVE_MAX_RETRIES must not be negative, got %d", c.SaveMaxRetries)
	}
	if c.VersionCacheSize < 0 {
		return fmt.Errorf("VERSION_CACHE_SIZE must not be negative, got %d", c.VersionCacheSize)
	}
	if c.OTLPProtocol != "grpc" && c.OTLPProtocol != "http" {
		return fmt.Errorf("OTLP_PROTOCOL must be grpc or http, got %q", c.OTLPProtocol)
	}
	return nil
}

// DatabaseURL is the lib/pq connection string.
func (c Config) DatabaseURL() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost, c.DatabasePort, c.DatabaseUserName, c.DatabasePassword, c.DatabaseName, c.DatabaseSSLMode)
}
