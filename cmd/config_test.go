package cmd_test

import (
	"testing"

	"fulfillment/cmd"
	"fulfillment/internal/core/application/engine"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := cmd.LoadConfig(env(map[string]string{
		"DB_HOST": "db",
		"DB_NAME": "orders",
	}))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, jobs.DefaultAutomationSchedule, cfg.AutomationSchedule)
	assert.Equal(t, services.NewestFirst, cfg.QueueOrder)
	assert.Equal(t, engine.DefaultArchiveLimit, cfg.ArchiveLimit)
	assert.Equal(t, "db", cfg.Postgres().Host)
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := cmd.LoadConfig(env(map[string]string{
		"HTTP_PORT":           "9090",
		"DB_HOST":             "db",
		"DB_NAME":             "orders",
		"DB_SSLMODE":          "require",
		"REDIS_URL":           "redis://cache:6379/0",
		"QUEUE_ORDER":         "FIFO",
		"ARCHIVE_LIMIT":       "0",
		"AUTOMATION_SCHEDULE": "*/30 * * * * *",
	}))

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, services.OldestFirst, cfg.QueueOrder)
	assert.Equal(t, 0, cfg.ArchiveLimit)
	assert.Equal(t, "*/30 * * * * *", cfg.AutomationSchedule)
	assert.Equal(t, "require", cfg.Postgres().SSLMode)
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name   string
		values map[string]string
		errMsg string
	}{
		{
			name:   "missing database",
			values: map[string]string{},
			errMsg: "DB_HOST and DB_NAME are required",
		},
		{
			name:   "unknown queue order",
			values: map[string]string{"DB_HOST": "db", "DB_NAME": "orders", "QUEUE_ORDER": "random"},
			errMsg: "QUEUE_ORDER",
		},
		{
			name:   "negative archive limit",
			values: map[string]string{"DB_HOST": "db", "DB_NAME": "orders", "ARCHIVE_LIMIT": "-1"},
			errMsg: "ARCHIVE_LIMIT",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := cmd.LoadConfig(env(tc.values))
			require.ErrorContains(t, err, tc.errMsg)
		})
	}
}
