package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ben-agnew/vlr-growth-story/libs/vlr"
)

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "valApiUrl": "http://localhost:8080/api/v1",
  "cacheDir": "/tmp/vlr-cache",
  "maxAgeHours": 6,
  "requestDelayMs": 250,
  "country": "kr",
  "processAll": true
}`), 0644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/v1", cfg.ValApiURL)
	assert.Equal(t, "/tmp/vlr-cache", cfg.CacheDir)
	assert.Equal(t, 6*time.Hour, cfg.MaxAge())
	assert.Equal(t, 250*time.Millisecond, cfg.RequestDelay())
	assert.Equal(t, "kr", cfg.Country)
	assert.True(t, cfg.ProcessAll)

	assert.Equal(t, "data/api_processed", cfg.OutputDir)
	assert.Equal(t, 5, cfg.BreakerThreshold)
	assert.Equal(t, 30*time.Second, cfg.BreakerTimeout())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"outputDir": "from-file"}`), 0644))
	t.Setenv("VLR_OUTPUT_DIR", "from-env")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.OutputDir)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	assert.Equal(t, vlr.DefaultBaseURL, cfg.ValApiURL)
	assert.Equal(t, "data/api_cache", cfg.CacheDir)
	assert.Equal(t, 24*time.Hour, cfg.MaxAge())
	assert.Equal(t, time.Second, cfg.RequestDelay())
	assert.Equal(t, vlr.CountryJapan, cfg.Country)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DisableCache)
}

func TestNewClient_DiskCache(t *testing.T) {
	cfg := Configuration{CacheDir: filepath.Join(t.TempDir(), "cache")}
	applyDefaults(&cfg)

	client, closeCache, err := newClient(cfg)
	require.NoError(t, err)
	defer closeCache()
	assert.NotNil(t, client)

	_, err = os.Stat(cfg.CacheDir)
	assert.NoError(t, err)
}

func TestNewClient_BadRedisURL(t *testing.T) {
	cfg := Configuration{CacheUrl: "mysql://nope"}
	applyDefaults(&cfg)

	_, _, err := newClient(cfg)
	assert.Error(t, err)
}
