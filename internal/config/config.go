package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/campusmap/internal/logging"
)

// EnvPrefix marks environment overrides; a double underscore separates
// nesting levels.
const EnvPrefix = "CAMPUSMAP_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CAMPUSMAP_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// CAMPUSMAP_SERVER__PORT -> server.port
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if strings.TrimSpace(c.Data.Locations) == "" {
		return fmt.Errorf("data.locations is required")
	}
	if strings.TrimSpace(c.Data.Users) == "" {
		return fmt.Errorf("data.users is required")
	}
	if c.Data.FetchTimeout < 0 {
		return fmt.Errorf("data.fetch_timeout must be non-negative")
	}

	switch c.Session.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Session.DBPath == "" {
			return fmt.Errorf("session.db_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("invalid session.backend %q: must be one of memory, sqlite", c.Session.Backend)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.Session.PurgeInterval <= 0 {
		return fmt.Errorf("session.purge_interval must be positive")
	}

	if c.Routing.Profile == "" {
		return fmt.Errorf("routing.profile is required")
	}
	if c.Routing.ServerSide && c.Routing.ServiceURL == "" {
		return fmt.Errorf("routing.service_url is required when routing.server_side is set")
	}
	if c.Routing.Debounce < 0 {
		return fmt.Errorf("routing.debounce must be non-negative")
	}

	if c.Map.Zoom < 0 || c.Map.Zoom > 19 {
		return fmt.Errorf("map.zoom %d out of range 0-19", c.Map.Zoom)
	}
	if c.Map.FocusZoom < 0 || c.Map.FocusZoom > 19 {
		return fmt.Errorf("map.focus_zoom %d out of range 0-19", c.Map.FocusZoom)
	}
	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 || c.Map.CenterLng < -180 || c.Map.CenterLng > 180 {
		return fmt.Errorf("map center (%f, %f) is not a coordinate", c.Map.CenterLat, c.Map.CenterLng)
	}
	if c.Map.BoundsPadding < 0 {
		return fmt.Errorf("map.bounds_padding must be non-negative")
	}
	for i, t := range c.Map.Tiles {
		if t.URL == "" {
			return fmt.Errorf("map.tiles[%d].url is required", i)
		}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "" && c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log.format %q: must be one of json, text", c.Log.Format)
	}

	return nil
}
