package config

import (
	"strings"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/pdcamargo/voidscript-storage/statsd"
)

// StorageConfig carries the environment-driven settings of the storage
// engine. Unset variables keep the defaults set in Load.
type StorageConfig struct {
	StatsdAddress     string `config:"STORAGE_STATSD_ADDRESS"`
	StatsdTags        string `config:"STORAGE_STATSD_TAGS"`
	LogLevel          string `config:"STORAGE_LOG_LEVEL"`
	ArchetypeCapacity int    `config:"STORAGE_ARCHETYPE_CAPACITY"`
}

func Load() (StorageConfig, error) {
	cfg := StorageConfig{
		LogLevel:          "info",
		ArchetypeCapacity: 256,
	}
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Apply puts the loaded settings into effect: the global zerolog level is
// set, and the statsd client is initialized when an agent address is
// configured. With no address the no-op statsd client stays in place.
func (c StorageConfig) Apply() error {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return eris.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	zerolog.SetGlobalLevel(level)
	if c.StatsdAddress != "" {
		if err := statsd.Init(c.StatsdAddress, c.Tags()); err != nil {
			return eris.Wrap(err, "failed to initialize statsd client")
		}
	}
	return nil
}

// Tags returns the statsd tags as a slice. Tags are comma separated in the
// environment variable.
func (c StorageConfig) Tags() []string {
	if c.StatsdTags == "" {
		return nil
	}
	parts := strings.Split(c.StatsdTags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
