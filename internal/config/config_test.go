package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talon/internal/config"
)

func TestLoad_DefaultsApplyWithoutEnvFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.True(t, cfg.UseThreads)
	assert.Equal(t, 8, cfg.MaxWorkers)
	assert.Equal(t, "16:00", cfg.SessionCloseLocal)
}

func TestLoad_MissingEnvFileIsNotAnError(t *testing.T) {
	_, err := config.Load("/nonexistent/path/to/.env")
	assert.NoError(t, err)
}

func TestConfig_SessionCloseResolvesToSameCalendarDay(t *testing.T) {
	cfg := config.Config{SessionCloseLocal: "16:00"}
	now := time.Date(2026, 3, 5, 9, 30, 0, 0, time.UTC)

	close, err := cfg.SessionClose(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 5, 16, 0, 0, 0, time.UTC), close)
}

func TestConfig_SessionCloseRejectsMalformedTime(t *testing.T) {
	cfg := config.Config{SessionCloseLocal: "not-a-time"}
	_, err := cfg.SessionClose(time.Now())
	assert.Error(t, err)

	cfg = config.Config{SessionCloseLocal: "25:00"}
	_, err = cfg.SessionClose(time.Now())
	assert.Error(t, err)
}
