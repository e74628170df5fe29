package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/ziadkadry99/campusmap/internal/directory"
	"github.com/ziadkadry99/campusmap/internal/geo"
	"github.com/ziadkadry99/campusmap/internal/geolocation"
	"github.com/ziadkadry99/campusmap/internal/routing"
)

// fakeSurface records commands and tracks what is currently drawn.
type fakeSurface struct {
	calls []string

	markers    map[string]Marker
	groups     map[string]MarkerGroup
	routes     map[string]RouteOverlay
	live       map[string]Marker
	info       *InfoPanel
	sidebar    bool
	panel      View
	tracking   bool
	viewport   geo.Bounds
	hasView    bool
	center     geo.LatLng
	zoom       int
	fitted     geo.Bounds
	pans       []geo.LatLng
	liveMoves  int
	routeAdds  int
	routeEdits int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		markers: map[string]Marker{},
		groups:  map[string]MarkerGroup{},
		routes:  map[string]RouteOverlay{},
		live:    map[string]Marker{},
	}
}

func (f *fakeSurface) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeSurface) AddMarker(m Marker) {
	f.record("marker_add")
	f.markers[m.ID] = m
}
func (f *fakeSurface) RemoveMarker(id string) {
	f.record("marker_remove")
	delete(f.markers, id)
}
func (f *fakeSurface) AddGroup(g MarkerGroup) {
	f.record("group_add")
	f.groups[g.ID] = g
}
func (f *fakeSurface) RemoveGroup(id string) {
	f.record("group_remove")
	delete(f.groups, id)
}
func (f *fakeSurface) AddRoute(r RouteOverlay) {
	f.record("route_add")
	f.routes[r.ID] = r
	f.routeAdds++
}
func (f *fakeSurface) UpdateRoute(r RouteOverlay) {
	f.record("route_update")
	f.routes[r.ID] = r
	f.routeEdits++
}
func (f *fakeSurface) RemoveRoute(id string) {
	f.record("route_remove")
	delete(f.routes, id)
}
func (f *fakeSurface) SetLiveMarker(m Marker) {
	f.record("live_marker_set")
	f.live[m.ID] = m
	f.liveMoves++
}
func (f *fakeSurface) RemoveLiveMarker(id string) {
	f.record("live_marker_remove")
	delete(f.live, id)
}
func (f *fakeSurface) SetView(center geo.LatLng, zoom int) {
	f.record("set_view")
	f.center, f.zoom = center, zoom
}
func (f *fakeSurface) FitBounds(b geo.Bounds) {
	f.record("fit_bounds")
	f.fitted = b
}
func (f *fakeSurface) PanTo(p geo.LatLng) {
	f.record("pan_to")
	f.pans = append(f.pans, p)
}
func (f *fakeSurface) Viewport() (geo.Bounds, bool) { return f.viewport, f.hasView }
func (f *fakeSurface) ShowInfoPanel(p InfoPanel) {
	f.record("info_panel_show")
	f.info = &p
}
func (f *fakeSurface) CloseInfoPanel() {
	f.record("info_panel_close")
	f.info = nil
}
func (f *fakeSurface) SetSidebar(open bool) {
	f.record("sidebar:%v", open)
	f.sidebar = open
}
func (f *fakeSurface) SetPanelView(v View) {
	f.record("view:%s", v)
	f.panel = v
}
func (f *fakeSurface) SetLocationToggle(active bool) {
	f.record("location_toggle:%v", active)
	f.tracking = active
}

func (f *fakeSurface) reset() { f.calls = nil }

// drawn returns the number of overlays of each kind on the map.
func (f *fakeSurface) drawn() (markers, groups, routes, live int) {
	return len(f.markers), len(f.groups), len(f.routes), len(f.live)
}

// fakeProvider hands out handles and tracks which are still watching.
type fakeProvider struct {
	unsupported bool
	active      map[geolocation.Handle]bool
	started     []geolocation.Handle
	cleared     []geolocation.Handle
	opts        geolocation.Options
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{active: map[geolocation.Handle]bool{}}
}

func (p *fakeProvider) Watch(opts geolocation.Options) (geolocation.Handle, error) {
	if p.unsupported {
		return "", geolocation.ErrUnsupported
	}
	h := geolocation.NewHandle()
	p.opts = opts
	p.active[h] = true
	p.started = append(p.started, h)
	return h, nil
}

func (p *fakeProvider) ClearWatch(h geolocation.Handle) {
	delete(p.active, h)
	p.cleared = append(p.cleared, h)
}

func (p *fakeProvider) last() geolocation.Handle {
	if len(p.started) == 0 {
		return ""
	}
	return p.started[len(p.started)-1]
}

// fakeSession is an in-memory tab session.
type fakeSession struct {
	loggedIn bool
	returnTo string
	logouts  int
}

func (s *fakeSession) IsLoggedIn(context.Context) (bool, error) { return s.loggedIn, nil }
func (s *fakeSession) SetReturnTo(_ context.Context, name string) error {
	s.returnTo = name
	return nil
}
func (s *fakeSession) ConsumeReturnTo(context.Context) (string, bool, error) {
	name := s.returnTo
	s.returnTo = ""
	return name, name != "", nil
}
func (s *fakeSession) Logout(context.Context) error {
	s.loggedIn = false
	s.returnTo = ""
	s.logouts++
	return nil
}

// fakeRouter returns a straight line, or err when set.
type fakeRouter struct {
	calls int
	err   error
}

func (r *fakeRouter) Route(_ context.Context, from, to geo.LatLng) ([]routing.Route, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []routing.Route{{Distance: 100, Duration: 80, Path: []geo.LatLng{from, to}}}, nil
}

var errRoutingDown = fmt.Errorf("%w: status 503", routing.ErrRouteUnavailable)

// clock is a manually advanced time source.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func testDirectory() *directory.Directory {
	return directory.New([]directory.Location{
		{
			Name: "Library", Category: "Academic", Latitude: 27.80, Longitude: 75.03,
			Description: "Central **library**.", Timing: "9-5",
			Phone: "01582-123456", Email: directory.EmailContact{Single: "library@modyuniversity.ac.in"},
		},
		{
			Name: " ABB Building ", Category: "Admin", Latitude: 27.8021, Longitude: 75.0377,
			Phone: "NIL",
			Email: directory.EmailContact{Departments: []directory.DepartmentEmail{
				{Department: "Registrar", Email: "registrar@modyuniversity.ac.in"},
				{Department: "Accounts", Email: "accounts@modyuniversity.ac.in"},
			}},
		},
		{Name: "Food Court", Category: "Food", Latitude: 27.7995, Longitude: 75.0351, Phone: "NIL", Email: directory.EmailContact{Single: "NIL"}},
		{Name: "Hostel A", Category: "Hostel", Latitude: 27.7990, Longitude: 75.0300},
		{Name: "Hostel B", Category: "Hostel", Latitude: 27.8010, Longitude: 75.0340},
	})
}

type harness struct {
	c       *Controller
	surface *fakeSurface
	geo     *fakeProvider
	session *fakeSession
	router  *fakeRouter
	clock   *clock
}

func newHarness() *harness {
	h := &harness{
		surface: newFakeSurface(),
		geo:     newFakeProvider(),
		session: &fakeSession{},
		router:  &fakeRouter{},
		clock:   &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	h.c = New(testDirectory(), h.session, h.surface, h.geo, Options{
		Router: h.router,
		Now:    h.clock.Now,
	})
	return h
}

func (h *harness) fix(lat, lng float64) geolocation.Position {
	return geolocation.Position{Coords: geo.LatLng{Lat: lat, Lng: lng}, At: h.clock.Now()}
}
