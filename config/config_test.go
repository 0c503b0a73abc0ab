package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "database:\n  dsn: \"host=localhost\"\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, float64(10), cfg.Server.RateLimitPerSec)
	assert.Equal(t, float64(65), cfg.Scheduler.AverageSpeedMPH)
	assert.Equal(t, float64(1000), cfg.Scheduler.FuelIntervalMiles)
	assert.Equal(t, 30, cfg.Scheduler.FuelStopMinutes)
	assert.Equal(t, 5*time.Minute, cfg.Audit.Interval)
	assert.Equal(t, 3600, cfg.Push.TTL)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
}

func TestLoadReadsValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  port: 9000
  rate_limit_per_sec: 25
scheduler:
  average_speed_mph: 55
  fuel_interval_miles: 800
audit:
  enabled: true
  interval_seconds: 60
worker_pool:
  size: 4
`))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, float64(55), cfg.Scheduler.AverageSpeedMPH)
	assert.Equal(t, float64(800), cfg.Scheduler.FuelIntervalMiles)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, time.Minute, cfg.Audit.Interval)
	assert.Equal(t, 4, cfg.WorkerPool.Size)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
