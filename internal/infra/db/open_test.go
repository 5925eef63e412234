package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConnectionConfig(t *testing.T) {
	cfg := DefaultConnectionConfig()

	assert.Equal(t, 10, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 1*time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxIdleTime)
}

func TestGetConnectionConfigFromEnv_Defaults(t *testing.T) {
	_ = os.Unsetenv("DB_MAX_OPEN_CONNS")
	_ = os.Unsetenv("DB_MAX_IDLE_CONNS")
	_ = os.Unsetenv("DB_CONN_MAX_LIFETIME")
	_ = os.Unsetenv("DB_CONN_MAX_IDLE_TIME")

	cfg := getConnectionConfigFromEnv()

	assert.Equal(t, DefaultConnectionConfig(), cfg)
}

func TestGetConnectionConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("DB_MAX_IDLE_CONNS", "20")
	t.Setenv("DB_CONN_MAX_LIFETIME", "2h")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "15m")

	cfg := getConnectionConfigFromEnv()

	assert.Equal(t, 50, cfg.MaxOpenConns)
	assert.Equal(t, 20, cfg.MaxIdleConns)
	assert.Equal(t, 2*time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 15*time.Minute, cfg.ConnMaxIdleTime)
}

func TestGetConnectionConfigFromEnv_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("DB_CONN_MAX_LIFETIME", "-5m")

	cfg := getConnectionConfigFromEnv()

	assert.Equal(t, DefaultConnectionConfig().MaxOpenConns, cfg.MaxOpenConns)
	assert.Equal(t, DefaultConnectionConfig().ConnMaxLifetime, cfg.ConnMaxLifetime)
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}
