package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsemon/pulsemon/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
interval: 5
job: telemetry
instance: web-01
gateway:
  url: http://gw.internal:9091
telegram:
  token: abc
  chat_id: "123"
thresholds:
  cpu:    {warn: 70, crit: 85}
  memory: {warn: 75, crit: 95}
services:
  - {name: redis, port: 6379}
  - {name: nginx, port: 80}
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.IntervalSec)
	assert.Equal(t, "telemetry", cfg.Job)
	assert.Equal(t, "web-01", cfg.Instance)
	assert.Equal(t, "http://gw.internal:9091", cfg.Gateway.URL)
	assert.Equal(t, "abc", cfg.Telegram.Token)
	assert.Equal(t, model.Threshold{Warn: 70, Crit: 85}, cfg.Thresholds.CPU)
	assert.Equal(t, model.Threshold{Warn: 75, Crit: 95}, cfg.Thresholds.Memory)
	// Unset sections keep their defaults.
	assert.Equal(t, model.Threshold{Warn: 80, Crit: 90}, cfg.Thresholds.Disk)
	assert.Equal(t, 5, cfg.CollectTimeoutSec)
	assert.Equal(t, "/", cfg.DiskMount)

	require.Len(t, cfg.Services, 2)
	assert.Equal(t, model.ServiceSpec{Name: "redis", Port: 6379}, cfg.Services[0])
	assert.Equal(t, model.ServiceSpec{Name: "nginx", Port: 80}, cfg.Services[1])
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := writeConfig(t, "interval: [not a number")
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("empty gateway url", func(t *testing.T) {
		path := writeConfig(t, `gateway: {url: ""}`)
		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gateway.url")
	})

	t.Run("zero interval", func(t *testing.T) {
		path := writeConfig(t, "interval: 0")
		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "interval")
	})

	t.Run("service without port", func(t *testing.T) {
		path := writeConfig(t, `
services:
  - {name: redis}
`)
		_, err := LoadFile(path)
		assert.Error(t, err)
	})
}
