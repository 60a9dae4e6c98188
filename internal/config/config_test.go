package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://inventory.local")
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("DATABASE_DSN", "postgres://localhost/console")
	t.Setenv("RABBITMQ_DSN", "amqp://localhost")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Snapshot.TTL)
	assert.Equal(t, 43200, cfg.Session.Expiration)
	assert.Equal(t, "email_queue", cfg.RabbitMQ.Queue)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsNonPositiveTTL(t *testing.T) {
	for _, v := range []string{"0", "-5"} {
		setRequired(t)
		t.Setenv("SNAPSHOT_TTL", v)

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "SNAPSHOT_TTL", v)
	}

	setRequired(t)
	t.Setenv("SESSION_EXPIRATION", "0")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "SESSION_EXPIRATION")
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequired(t)
	// t.Setenv restores the variable after the test
	require.NoError(t, os.Unsetenv("BACKEND_BASE_URL"))

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "BACKEND_BASE_URL")
}
