// Package routing asks an OSRM-compatible service for walking routes.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/ziadkadry99/campusmap/internal/geo"
)

// ErrRouteUnavailable is returned when the service cannot produce a route.
var ErrRouteUnavailable = errors.New("route unavailable")

const (
	DefaultServiceURL = "https://router.project-osrm.org/route/v1"
	DefaultProfile    = "walking"
)

// Route is one candidate path between the waypoints.
type Route struct {
	Summary  string         `json:"summary,omitempty"`
	Distance float64        `json:"distance"` // metres
	Duration float64        `json:"duration"` // seconds
	Geometry orb.LineString `json:"-"`
	Path     []geo.LatLng   `json:"path"`
}

// Router computes routes from one coordinate to another.
type Router interface {
	Route(ctx context.Context, from, to geo.LatLng) ([]Route, error)
}

// Config configures a Client.
type Config struct {
	ServiceURL string
	Profile    string
	Timeout    time.Duration
	UserAgent  string
}

// Client is an OSRM HTTP client.
type Client struct {
	serviceURL string
	profile    string
	userAgent  string
	http       *http.Client
}

// NewClient creates a Client; zero fields fall back to the public OSRM
// walking service.
func NewClient(cfg Config) *Client {
	if cfg.ServiceURL == "" {
		cfg.ServiceURL = DefaultServiceURL
	}
	if cfg.Profile == "" {
		cfg.Profile = DefaultProfile
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "campusmap/1.0"
	}
	return &Client{
		serviceURL: strings.TrimRight(cfg.ServiceURL, "/"),
		profile:    cfg.Profile,
		userAgent:  cfg.UserAgent,
		http:       &http.Client{Timeout: cfg.Timeout},
	}
}

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64           `json:"distance"`
		Duration float64           `json:"duration"`
		Geometry *geojson.Geometry `json:"geometry"`
		Legs     []struct {
			Summary string `json:"summary"`
		} `json:"legs"`
	} `json:"routes"`
}

// Route requests the route and its alternatives.
func (c *Client) Route(ctx context.Context, from, to geo.LatLng) ([]Route, error) {
	apiURL := fmt.Sprintf("%s/%s/%f,%f;%f,%f?alternatives=true&overview=full&geometries=geojson",
		c.serviceURL, c.profile, from.Lng, from.Lat, to.Lng, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrRouteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrRouteUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: service returned status %d", ErrRouteUnavailable, resp.StatusCode)
	}

	var out osrmResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrRouteUnavailable, err)
	}
	if out.Code != "Ok" {
		return nil, fmt.Errorf("%w: %s %s", ErrRouteUnavailable, out.Code, out.Message)
	}
	if len(out.Routes) == 0 {
		return nil, fmt.Errorf("%w: no routes", ErrRouteUnavailable)
	}

	routes := make([]Route, 0, len(out.Routes))
	for _, r := range out.Routes {
		route := Route{Distance: r.Distance, Duration: r.Duration}
		var names []string
		for _, leg := range r.Legs {
			if leg.Summary != "" {
				names = append(names, leg.Summary)
			}
		}
		route.Summary = strings.Join(names, ", ")
		if r.Geometry != nil {
			if ls, ok := r.Geometry.Coordinates.(orb.LineString); ok {
				route.Geometry = ls
				route.Path = make([]geo.LatLng, len(ls))
				for i, pt := range ls {
					route.Path[i] = geo.FromPoint(pt)
				}
			}
		}
		routes = append(routes, route)
	}
	return routes, nil
}
