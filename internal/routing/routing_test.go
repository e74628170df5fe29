package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ziadkadry99/campusmap/internal/geo"
)

const okResponse = `{
  "code": "Ok",
  "routes": [
    {
      "distance": 420.5,
      "duration": 302.1,
      "geometry": {"type": "LineString", "coordinates": [[75.03, 27.80], [75.031, 27.801], [75.0377, 27.8021]]},
      "legs": [{"summary": "Campus Road"}]
    },
    {
      "distance": 510.0,
      "duration": 366.0,
      "geometry": {"type": "LineString", "coordinates": [[75.03, 27.80], [75.0377, 27.8021]]},
      "legs": [{"summary": ""}]
    }
  ]
}`

func TestRoute(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(okResponse))
	}))
	defer srv.Close()

	c := NewClient(Config{ServiceURL: srv.URL + "/route/v1/", UserAgent: "test-agent"})
	routes, err := c.Route(context.Background(), geo.LatLng{Lat: 27.80, Lng: 75.03}, geo.LatLng{Lat: 27.8021, Lng: 75.0377})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/route/v1/walking/75.030000,27.800000;75.037700,27.802100") {
		t.Errorf("path = %q", gotPath)
	}
	if !strings.Contains(gotQuery, "alternatives=true") || !strings.Contains(gotQuery, "geometries=geojson") {
		t.Errorf("query = %q", gotQuery)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q", gotUA)
	}

	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}
	first := routes[0]
	if first.Summary != "Campus Road" {
		t.Errorf("Summary = %q", first.Summary)
	}
	if first.Distance != 420.5 || first.Duration != 302.1 {
		t.Errorf("distance/duration = %v/%v", first.Distance, first.Duration)
	}
	if len(first.Path) != 3 || first.Path[0] != (geo.LatLng{Lat: 27.80, Lng: 75.03}) {
		t.Errorf("Path = %v", first.Path)
	}
	if len(first.Geometry) != 3 {
		t.Errorf("Geometry has %d points", len(first.Geometry))
	}
}

func TestRouteFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `oops`},
		{"no route code", http.StatusOK, `{"code":"NoRoute","message":"Impossible route"}`},
		{"empty routes", http.StatusOK, `{"code":"Ok","routes":[]}`},
		{"malformed", http.StatusOK, `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(Config{ServiceURL: srv.URL})
			_, err := c.Route(context.Background(), geo.LatLng{}, geo.LatLng{Lat: 1, Lng: 1})
			if !errors.Is(err, ErrRouteUnavailable) {
				t.Errorf("expected ErrRouteUnavailable, got %v", err)
			}
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})
	if c.serviceURL != DefaultServiceURL {
		t.Errorf("serviceURL = %q", c.serviceURL)
	}
	if c.profile != DefaultProfile {
		t.Errorf("profile = %q", c.profile)
	}
}
