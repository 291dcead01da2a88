package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, 5*time.Minute, cfg.DwellTime)
	assert.Equal(t, 15*time.Minute, cfg.ReminderWindow)
	assert.Equal(t, 60*time.Second, cfg.TriggerWindow)
	assert.Equal(t, 10*time.Minute, cfg.MissedGracePeriod)
	assert.Equal(t, 200, cfg.NoticeFeedLimit)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SWEEP_INTERVAL", "10s")
	t.Setenv("CALL_DWELL_TIME", "1m")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.voxlane.io, https://admin.voxlane.io")
	t.Setenv("NOTIFY_EMAIL_RECIPIENTS", "ops@voxlane.io")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.SweepInterval)
	assert.Equal(t, time.Minute, cfg.DwellTime)
	assert.True(t, cfg.RedisTLS)
	assert.Equal(t, []string{"https://app.voxlane.io", "https://admin.voxlane.io"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, []string{"ops@voxlane.io"}, cfg.NotifyEmailRecipients)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "not-a-duration")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
}
