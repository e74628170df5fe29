package config

import (
	"time"

	"github.com/ziadkadry99/campusmap/internal/mapsocket"
)

// SessionBackend selects where tab session values are kept.
type SessionBackend string

const (
	BackendMemory SessionBackend = "memory"
	BackendSQLite SessionBackend = "sqlite"
)

// Config is the top-level campusmap configuration, corresponding to .campusmap.yml.
type Config struct {
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Data    DataConfig    `yaml:"data" koanf:"data"`
	Session SessionConfig `yaml:"session" koanf:"session"`
	Routing RoutingConfig `yaml:"routing" koanf:"routing"`
	Map     MapConfig     `yaml:"map" koanf:"map"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port           int      `yaml:"port" koanf:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
	AllowAll       bool     `yaml:"allow_all" koanf:"allow_all"`
}

// DataConfig points at the location and user files. Each may be a path, a
// doublestar glob (locations only) or an http(s) URL.
type DataConfig struct {
	Locations    string        `yaml:"locations" koanf:"locations"`
	Users        string        `yaml:"users" koanf:"users"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" koanf:"fetch_timeout"`
}

// SessionConfig controls per-tab session storage.
type SessionConfig struct {
	Backend       SessionBackend `yaml:"backend" koanf:"backend"`
	DBPath        string         `yaml:"db_path" koanf:"db_path"`
	TTL           time.Duration  `yaml:"ttl" koanf:"ttl"`
	PurgeInterval time.Duration  `yaml:"purge_interval" koanf:"purge_interval"`
}

// RoutingConfig controls walking routes. With ServerSide off the page asks
// the routing service directly.
type RoutingConfig struct {
	ServerSide bool          `yaml:"server_side" koanf:"server_side"`
	ServiceURL string        `yaml:"service_url" koanf:"service_url"`
	Profile    string        `yaml:"profile" koanf:"profile"`
	Timeout    time.Duration `yaml:"timeout" koanf:"timeout"`
	Debounce   time.Duration `yaml:"debounce" koanf:"debounce"`
}

// MapConfig holds the initial view and base layers.
type MapConfig struct {
	CenterLat     float64          `yaml:"center_lat" koanf:"center_lat"`
	CenterLng     float64          `yaml:"center_lng" koanf:"center_lng"`
	Zoom          int              `yaml:"zoom" koanf:"zoom"`
	FocusZoom     int              `yaml:"focus_zoom" koanf:"focus_zoom"`
	BoundsPadding float64          `yaml:"bounds_padding" koanf:"bounds_padding"`
	Tiles         []mapsocket.Tile `yaml:"tiles" koanf:"tiles"`
}

// LogConfig selects log level and format.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}
