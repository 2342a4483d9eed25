package main

import (
	"errors"
	"io/fs"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tkanos/gonfig"

	"github.com/ben-agnew/vlr-growth-story/libs/vlr"
)

const defaultConfigPath = "config.json"

type Configuration struct {
	ValApiURL         string `json:"valApiUrl" env:"VLR_API_URL"`
	CacheDir          string `json:"cacheDir" env:"VLR_CACHE_DIR"`
	CacheUrl          string `json:"cacheUrl" env:"VLR_CACHE_URL"`
	CachePrefix       string `json:"cachePrefix"`
	DisableCache      bool   `json:"disableCache"`
	MaxAgeHours       int    `json:"maxAgeHours"`
	RequestDelayMs    int    `json:"requestDelayMs"`
	BreakerThreshold  int    `json:"breakerThreshold"`
	BreakerTimeoutSec int    `json:"breakerTimeoutSec"`
	OutputDir         string `json:"outputDir" env:"VLR_OUTPUT_DIR"`
	Country           string `json:"country"`
	ProcessAll        bool   `json:"processAll"`
	LogLevel          string `json:"logLevel" env:"LOG_LEVEL"`
	LogJSON           bool   `json:"logJson"`
}

func (c Configuration) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeHours) * time.Hour
}

func (c Configuration) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMs) * time.Millisecond
}

func (c Configuration) BreakerTimeout() time.Duration {
	return time.Duration(c.BreakerTimeoutSec) * time.Second
}

// loadConfig reads path (when it exists) and environment overrides, then fills
// anything left unset with defaults.
func loadConfig(path string) (Configuration, error) {
	var cfg Configuration

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
		log.WithField("event", "load_config").Warnf("%s not found, using defaults", path)
		path = ""
	}

	if err := gonfig.GetConf(path, &cfg); err != nil {
		return cfg, err
	}

	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Configuration) {
	if cfg.ValApiURL == "" {
		cfg.ValApiURL = vlr.DefaultBaseURL
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = "data/api_cache"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "data/api_processed"
	}
	if cfg.MaxAgeHours <= 0 {
		cfg.MaxAgeHours = 24
	}
	if cfg.RequestDelayMs <= 0 {
		cfg.RequestDelayMs = int(vlr.DefaultRequestDelay / time.Millisecond)
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = 5
	}
	if cfg.BreakerTimeoutSec <= 0 {
		cfg.BreakerTimeoutSec = 30
	}
	if cfg.Country == "" {
		cfg.Country = vlr.CountryJapan
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}
