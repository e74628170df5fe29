package mapsocket

import (
	"github.com/ziadkadry99/campusmap/internal/geo"
)

// Inbound message types sent by the map page.
const (
	msgSearch         = "search"
	msgCategory       = "category"
	msgRoute          = "route"
	msgToggleLocation = "toggle_location"
	msgOpenSidebar    = "open_sidebar"
	msgCloseSidebar   = "close_sidebar"
	msgClosePanel     = "close_panel"
	msgRequestLogin   = "request_login"
	msgLogout         = "logout"
	msgPosition       = "position"
	msgPositionError  = "position_error"
	msgViewport       = "viewport"
)

// inbound is the flat client message; each type reads the fields it needs.
type inbound struct {
	Type string `json:"type"`

	Name  string `json:"name,omitempty"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	View  string `json:"view,omitempty"`

	Handle   string  `json:"handle,omitempty"`
	Lat      float64 `json:"lat,omitempty"`
	Lng      float64 `json:"lng,omitempty"`
	Accuracy float64 `json:"accuracy,omitempty"`
	Code     int     `json:"code,omitempty"`
	Message  string  `json:"message,omitempty"`

	South float64 `json:"south,omitempty"`
	West  float64 `json:"west,omitempty"`
	North float64 `json:"north,omitempty"`
	East  float64 `json:"east,omitempty"`
}

// command is one outbound instruction for the page.
type command struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Tile is a base layer offered in the layer switcher.
type Tile struct {
	Name        string `json:"name" koanf:"name"`
	URL         string `json:"url" koanf:"url"`
	Attribution string `json:"attribution" koanf:"attribution"`
	MaxZoom     int    `json:"max_zoom" koanf:"max_zoom"`
}

// DefaultTiles are the street and satellite layers, street first.
var DefaultTiles = []Tile{
	{
		Name:        "Street View",
		URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: `&copy; <a href="http://www.openstreetmap.org/copyright">OpenStreetMap</a>`,
		MaxZoom:     19,
	},
	{
		Name:        "Satellite View",
		URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
		Attribution: "Tiles &copy; Esri &mdash; Source: Esri, et al.",
		MaxZoom:     19,
	},
}

type initData struct {
	Names       []string       `json:"names"`
	Categories  []string       `json:"categories"`
	Center      geo.LatLng     `json:"center"`
	Zoom        int            `json:"zoom"`
	Tiles       []Tile         `json:"tiles"`
	LoggedIn    bool           `json:"logged_in"`
	Geolocation map[string]any `json:"geolocation"`
}

type alertData struct {
	Message string `json:"message"`
}

type navigateData struct {
	URL string `json:"url"`
}

type idData struct {
	ID string `json:"id"`
}

type viewData struct {
	Center geo.LatLng `json:"center"`
	Zoom   int        `json:"zoom"`
}

type toggleData struct {
	Active bool   `json:"active"`
	Label  string `json:"label"`
	Title  string `json:"title"`
}

type watchData struct {
	Handle  string         `json:"handle"`
	Options map[string]any `json:"options,omitempty"`
}

type sidebarData struct {
	Open bool `json:"open"`
}

type panelViewData struct {
	View             string `json:"view"`
	DirectoryVisible bool   `json:"directory_visible"`
}
