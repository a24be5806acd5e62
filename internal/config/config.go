package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataDir         string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Map presentation.
	MapZoom    int
	MapTileURL string

	// Snapshot publishing configuration.
	KafkaBrokers       []string
	KafkaSnapshotTopic string
	SnapshotsEnabled   bool
}

// DefaultMapTileURL is the OpenStreetMap raster tile template.
const DefaultMapTileURL = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapZoom, err := parseMapZoom()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	snapshotsEnabled := len(brokers) > 0
	if v := os.Getenv("SNAPSHOTS_ENABLED"); v != "" {
		snapshotsEnabled = v == "true"
	}

	cfg := &Config{
		DataDir:         sharedcfg.EnvOrDefault("DATA_DIR", "."),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		MapZoom:    mapZoom,
		MapTileURL: sharedcfg.EnvOrDefault("MAP_TILE_URL", DefaultMapTileURL),

		KafkaBrokers:       brokers,
		KafkaSnapshotTopic: sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "ev-dashboard-snapshots"),
		SnapshotsEnabled:   snapshotsEnabled,
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if cfg.SnapshotsEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("SNAPSHOTS_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.SnapshotsEnabled && cfg.KafkaSnapshotTopic == "" {
		return nil, errors.New("KAFKA_SNAPSHOT_TOPIC is required")
	}

	return cfg, nil
}

func parseMapZoom() (int, error) {
	s := os.Getenv("MAP_ZOOM")
	if s == "" {
		return 6, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 18 {
		return 0, errors.New("invalid MAP_ZOOM: must be an integer between 1 and 18")
	}
	return n, nil
}
