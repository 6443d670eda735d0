package cmd

import (
	"fmt"
	"strconv"

	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/engine"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/jobs"
)

const defaultHTTPPort = "8080"

// Config holds the service settings read from the environment.
type Config struct {
	HTTPPort           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSslMode          string
	RedisURL           string
	SnapshotKey        string
	RabbitMQURL        string
	StatusExchange     string
	AutomationSchedule string
	QueueOrder         services.QueueOrder
	ArchiveLimit       int
}

// LoadConfig reads the configuration through getenv. Optional settings fall
// back to defaults; malformed values are errors.
func LoadConfig(getenv func(string) string) (Config, error) {
	cfg := Config{
		HTTPPort:           valueOr(getenv("HTTP_PORT"), defaultHTTPPort),
		DBHost:             getenv("DB_HOST"),
		DBPort:             getenv("DB_PORT"),
		DBUser:             getenv("DB_USER"),
		DBPassword:         getenv("DB_PASSWORD"),
		DBName:             getenv("DB_NAME"),
		DBSslMode:          getenv("DB_SSLMODE"),
		RedisURL:           getenv("REDIS_URL"),
		SnapshotKey:        getenv("SNAPSHOT_KEY"),
		RabbitMQURL:        getenv("RABBITMQ_URL"),
		StatusExchange:     getenv("STATUS_EXCHANGE"),
		AutomationSchedule: valueOr(getenv("AUTOMATION_SCHEDULE"), jobs.DefaultAutomationSchedule),
		ArchiveLimit:       engine.DefaultArchiveLimit,
	}

	queueOrder, err := services.ParseQueueOrder(getenv("QUEUE_ORDER"))
	if err != nil {
		return Config{}, fmt.Errorf("QUEUE_ORDER: %w", err)
	}
	cfg.QueueOrder = queueOrder

	if raw := getenv("ARCHIVE_LIMIT"); raw != "" {
		limit, convErr := strconv.Atoi(raw)
		if convErr != nil || limit < 0 {
			return Config{}, fmt.Errorf("ARCHIVE_LIMIT: %q is not a non-negative integer", raw)
		}
		cfg.ArchiveLimit = limit
	}

	if cfg.DBHost == "" || cfg.DBName == "" {
		return Config{}, fmt.Errorf("DB_HOST and DB_NAME are required")
	}

	return cfg, nil
}

// Postgres returns the OrderStore connection settings.
func (c Config) Postgres() postgres.ConnectionConfig {
	return postgres.ConnectionConfig{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSslMode,
	}
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
