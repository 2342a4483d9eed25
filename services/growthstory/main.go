package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/ben-agnew/vlr-growth-story/libs/cache"
	"github.com/ben-agnew/vlr-growth-story/libs/vlr"
)

var configuration Configuration

func main() {

	_ = godotenv.Load()

	configPath := os.Getenv("VLR_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	var err error
	configuration, err = loadConfig(configPath)
	if err != nil {
		log.WithField("event", "load_config").Fatal(err)
		return
	}
	setupLogging(configuration)

	log.Info("Starting growthstory...")

	client, closeCache, err := newClient(configuration)
	if err != nil {
		log.WithField("event", "cache_setup").Fatal(err)
		return
	}
	defer closeCache()

	ctx := context.Background()

	players, err := client.AllPlayers(ctx, configuration.Country)
	if err != nil {
		log.WithField("event", "list_players").Error(err)
	}
	log.WithField("event", "list_players").WithField("country", configuration.Country).Infof("found %d players", len(players))

	if len(players) == 0 {
		return
	}

	for _, line := range GetPlayerLines(players, 5) {
		log.WithField("event", "list_players").Info(line)
	}

	if configuration.ProcessAll {
		processAll(ctx, client, players)
		return
	}

	processPlayer(ctx, client, players[0].Id)
}

func processAll(ctx context.Context, client *vlr.Client, players []vlr.Player) {
	written := 0
	for _, player := range players {
		if player.Id == "" {
			continue
		}
		if processPlayer(ctx, client, player.Id) {
			written++
		}
	}
	log.WithField("event", "growth_story_batch").Infof("wrote %d of %d players", written, len(players))
}

func processPlayer(ctx context.Context, client *vlr.Client, playerID string) bool {
	story, err := client.GrowthStory(ctx, playerID)
	if err != nil {
		log.WithField("event", "growth_story").WithField("player_id", playerID).Error(err)
		return false
	}

	log.WithField("event", "growth_story").Info(GetRecordString(story))

	path, err := writeStory(configuration.OutputDir, story)
	if err != nil {
		log.WithField("event", "write_story").WithField("player_id", playerID).Error(err)
		return false
	}
	log.WithField("event", "write_story").Info("saved " + path)
	return true
}

// newClient wires the cache backend chosen by cfg into a vlr.Client. The
// returned func releases the backend.
func newClient(cfg Configuration) (*vlr.Client, func(), error) {
	opts := []vlr.Option{
		vlr.WithRequestDelay(cfg.RequestDelay()),
		vlr.WithMaxAge(cfg.MaxAge()),
		vlr.WithBreaker(cfg.BreakerThreshold, cfg.BreakerTimeout()),
	}

	closer := func() {}

	if !cfg.DisableCache {
		var store cache.Store
		if cfg.CacheUrl != "" {
			redisStore, err := cache.NewRedisStore(cfg.CacheUrl, cfg.CachePrefix)
			if err != nil {
				return nil, nil, err
			}
			closer = func() {
				if err := redisStore.Close(); err != nil {
					log.WithField("event", "cache_close").Error(err)
				}
			}
			store = redisStore
		} else {
			diskStore, err := cache.NewDiskStore(cfg.CacheDir)
			if err != nil {
				return nil, nil, err
			}
			log.WithField("event", "cache_setup").Info("caching responses in " + diskStore.Dir())
			store = diskStore
		}
		opts = append(opts, vlr.WithCache(cache.New(store)))
	}

	return vlr.NewClient(cfg.ValApiURL, opts...), closer, nil
}

func setupLogging(cfg Configuration) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("event", "load_config").Warnf("unknown log level %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogJSON {
		log.SetFormatter(&log.JSONFormatter{})
	}
}
