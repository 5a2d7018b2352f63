package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("legallib-test")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "legallib-test", cfg.Telemetry.ServiceName)
	assert.Equal(t, "deepseek/deepseek-chat", cfg.Chat.Model)
	assert.Equal(t, 1000, cfg.Chat.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Chat.Temperature, 1e-9)
	assert.Equal(t, "fir-intake", cfg.Temporal.TaskQueue)
	assert.Equal(t, 300, cfg.Temporal.SweepInterval)
	assert.Equal(t, 600, cfg.Temporal.SweepAge)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEGALLIB_SERVER_PORT", "9090")
	t.Setenv("LEGALLIB_DATABASE_HOST", "db.internal")
	t.Setenv("LEGALLIB_SMTP_HOST", "smtp.example.com")
	t.Setenv("LEGALLIB_SMTP_FROM", "noreply@example.com")

	cfg, err := Load("legallib-test")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.True(t, cfg.SMTP.Enabled())
	assert.Contains(t, cfg.Database.DSN(), "@db.internal:5432/legallibrary")
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := Config{
		Server:      ServerConfig{Port: 0, ReadTimeout: 10, WriteTimeout: 35},
		Database:    DatabaseConfig{Host: "", Port: 5432, User: "u", DBName: "d"},
		NATS:        NATSConfig{URL: "nats://x"},
		Valkey:      ValkeyConfig{Addr: "x:6379"},
		Chat:        ChatConfig{Temperature: 3},
		ObjectStore: ObjectStoreConfig{Endpoint: "minio:9000"},
		Temporal:    TemporalConfig{TaskQueue: "q", SweepAge: -1},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "database.host")
	assert.Contains(t, err.Error(), "chat.temperature")
	assert.Contains(t, err.Error(), "objectstore.bucket")
	assert.Contains(t, err.Error(), "temporal.sweep_age")
}
