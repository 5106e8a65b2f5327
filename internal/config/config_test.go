package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 6*time.Hour, cfg.RoomTTL)
	assert.Equal(t, 6*time.Minute, cfg.MessageTTL)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.True(t, cfg.IsDev())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("ROOM_TTL", "12h")
	t.Setenv("MESSAGE_TTL", "90s")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, "9999", cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, 12*time.Hour, cfg.RoomTTL)
	assert.Equal(t, 90*time.Second, cfg.MessageTTL)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("ROOM_TTL", "not-a-duration")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, 6*time.Hour, cfg.RoomTTL)
	assert.Equal(t, 0, cfg.RedisDB)
}
