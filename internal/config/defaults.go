package config

import (
	"time"

	"github.com/ziadkadry99/campusmap/internal/mapsocket"
	"github.com/ziadkadry99/campusmap/internal/routing"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = ".campusmap.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	tiles := make([]mapsocket.Tile, len(mapsocket.DefaultTiles))
	copy(tiles, mapsocket.DefaultTiles)
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Data: DataConfig{
			Locations:    "data/ModyData.json",
			Users:        "data/users.json",
			FetchTimeout: 15 * time.Second,
		},
		Session: SessionConfig{
			Backend:       BackendMemory,
			DBPath:        "campusmap.db",
			TTL:           12 * time.Hour,
			PurgeInterval: 10 * time.Minute,
		},
		Routing: RoutingConfig{
			ServerSide: true,
			ServiceURL: routing.DefaultServiceURL,
			Profile:    routing.DefaultProfile,
			Timeout:    10 * time.Second,
			Debounce:   5 * time.Second,
		},
		Map: MapConfig{
			CenterLat:     27.801564,
			CenterLng:     75.036523,
			Zoom:          16,
			FocusZoom:     18,
			BoundsPadding: 0.1,
			Tiles:         tiles,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
