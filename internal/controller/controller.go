// Package controller owns the map page lifecycle of one browser tab: which
// sidebar view is showing, whether the info panel is open, and the overlays
// drawn on the map. Every mode operation starts with Reset, so overlays of
// a previous mode never survive into the next one.
//
// A Controller is not safe for concurrent use. The transport calls it from a
// single goroutine per tab.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/campusmap/internal/auth"
	"github.com/ziadkadry99/campusmap/internal/directory"
	"github.com/ziadkadry99/campusmap/internal/geo"
	"github.com/ziadkadry99/campusmap/internal/geolocation"
	"github.com/ziadkadry99/campusmap/internal/logging"
	"github.com/ziadkadry99/campusmap/internal/routing"
)

// Mode is what the map is currently showing.
type Mode int

const (
	Idle Mode = iota
	SingleResult
	CategorySweep
	StaticRoute
	LiveRoute
	LiveLocationOnly
)

func (m Mode) String() string {
	switch m {
	case SingleResult:
		return "single_result"
	case CategorySweep:
		return "category_sweep"
	case StaticRoute:
		return "static_route"
	case LiveRoute:
		return "live_route"
	case LiveLocationOnly:
		return "live_location"
	default:
		return "idle"
	}
}

// Popup text of the live-location marker.
const liveMarkerPopup = "Your Location"

// Session is the part of the tab session the controller reads and writes.
type Session interface {
	IsLoggedIn(ctx context.Context) (bool, error)
	SetReturnTo(ctx context.Context, name string) error
	ConsumeReturnTo(ctx context.Context) (string, bool, error)
	Logout(ctx context.Context) error
}

// Options tunes a Controller. Zero values take the map page defaults.
type Options struct {
	FocusZoom     int
	BoundsPadding float64
	RouteDebounce time.Duration
	RouteProfile  string
	Geolocation   geolocation.Options
	// Router computes route geometry. Nil leaves routing to the client.
	Router routing.Router
	Logger *logging.Logger
	Now    func() time.Time
}

func (o Options) withDefaults() Options {
	if o.FocusZoom == 0 {
		o.FocusZoom = 18
	}
	if o.BoundsPadding == 0 {
		o.BoundsPadding = 0.1
	}
	if o.RouteDebounce == 0 {
		o.RouteDebounce = 5 * time.Second
	}
	if o.RouteProfile == "" {
		o.RouteProfile = routing.DefaultProfile
	}
	if o.Geolocation == (geolocation.Options{}) {
		o.Geolocation = geolocation.DefaultOptions
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	o.Logger = logging.Or(o.Logger)
	return o
}

// overlayState holds at most one of each overlay.
type overlayState struct {
	searchMarker  string
	categoryGroup string
	route         *RouteOverlay
	liveMarker    string
	watch         geolocation.Handle
}

type viewState struct {
	panel   View
	info    bool
	sidebar bool
}

// appState is everything the controller owns for its tab.
type appState struct {
	mode     Mode
	overlays overlayState
	view     viewState

	// live modes
	destination   geo.LatLng
	lastRecompute time.Time
	centered      bool
}

// Controller drives one tab's map page.
type Controller struct {
	dir     *directory.Directory
	session Session
	surface Surface
	geo     geolocation.Provider
	opts    Options
	log     *logging.Logger

	state appState
}

// New creates a Controller in the Idle mode with the search view selected.
func New(dir *directory.Directory, sess Session, surface Surface, provider geolocation.Provider, opts Options) *Controller {
	opts = opts.withDefaults()
	return &Controller{
		dir:     dir,
		session: sess,
		surface: surface,
		geo:     provider,
		opts:    opts,
		log:     opts.Logger,
		state:   appState{view: viewState{panel: ViewSearch}},
	}
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	Mode             Mode
	Panel            View
	DirectoryVisible bool
	InfoPanelVisible bool
	SidebarVisible   bool
	SearchMarker     string
	CategoryGroup    string
	Route            *RouteOverlay
	LiveMarker       string
	Watch            geolocation.Handle
}

// State returns a snapshot of the current state.
func (c *Controller) State() Snapshot {
	s := Snapshot{
		Mode:             c.state.mode,
		Panel:            c.state.view.panel,
		DirectoryVisible: c.state.view.panel == ViewSearch,
		InfoPanelVisible: c.state.view.info,
		SidebarVisible:   c.state.view.sidebar,
		SearchMarker:     c.state.overlays.searchMarker,
		CategoryGroup:    c.state.overlays.categoryGroup,
		LiveMarker:       c.state.overlays.liveMarker,
		Watch:            c.state.overlays.watch,
	}
	if r := c.state.overlays.route; r != nil {
		cp := *r
		s.Route = &cp
	}
	return s
}

// Start renders the initial view and reopens the location the tab asked to
// return to before logging in. The pending location is consumed even when it
// no longer resolves.
func (c *Controller) Start(ctx context.Context) error {
	c.Reset()
	c.setPanelView(ViewSearch)

	name, ok, err := c.session.ConsumeReturnTo(ctx)
	if err != nil {
		return fmt.Errorf("reading return location: %w", err)
	}
	if !ok {
		return nil
	}
	c.log.Debug("reopening location after login", "name", name)
	return c.ShowSingleLocation(ctx, name)
}

// Reset tears down every overlay and closes both panels. It is idempotent.
func (c *Controller) Reset() {
	o := &c.state.overlays

	// Drop ownership of the watch before cancelling it so any event still in
	// flight for it is rejected.
	if h := o.watch; h != "" {
		o.watch = ""
		c.geo.ClearWatch(h)
		c.log.Debug("stopped location watch", "handle", string(h))
	}
	if o.searchMarker != "" {
		c.surface.RemoveMarker(o.searchMarker)
		o.searchMarker = ""
	}
	if o.categoryGroup != "" {
		c.surface.RemoveGroup(o.categoryGroup)
		o.categoryGroup = ""
	}
	if o.route != nil {
		c.surface.RemoveRoute(o.route.ID)
		o.route = nil
	}
	if o.liveMarker != "" {
		c.surface.RemoveLiveMarker(o.liveMarker)
		o.liveMarker = ""
	}
	c.surface.SetLocationToggle(false)
	c.closeInfoPanel()
	c.closeSidebar()

	c.state.mode = Idle
	c.state.destination = geo.LatLng{}
	c.state.lastRecompute = time.Time{}
	c.state.centered = false
}

// ShowSingleLocation drops a marker on the named location and opens its info
// panel. A blank or unknown name changes nothing.
func (c *Controller) ShowSingleLocation(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyQuery
	}
	loc, ok := c.dir.FindByName(name)
	if !ok {
		return &NotFoundError{Name: name}
	}
	loggedIn, err := c.session.IsLoggedIn(ctx)
	if err != nil {
		return fmt.Errorf("reading login state: %w", err)
	}

	c.Reset()

	m := Marker{
		ID:        newID(),
		Position:  loc.Position(),
		Popup:     loc.Name,
		OpenPopup: true,
	}
	c.surface.AddMarker(m)
	c.state.overlays.searchMarker = m.ID
	c.surface.SetView(m.Position, c.opts.FocusZoom)

	c.surface.ShowInfoPanel(buildPanel(loc, loggedIn))
	c.state.view.info = true
	c.closeSidebar()

	c.state.mode = SingleResult
	return nil
}

// ShowCategory shows every location of a category as one marker group and
// fits the view to it. A category with no locations leaves the map reset.
func (c *Controller) ShowCategory(category string) {
	c.Reset()

	locs := c.dir.FilterByCategory(category)
	if len(locs) == 0 {
		return
	}
	g := MarkerGroup{ID: newID(), Markers: make([]Marker, 0, len(locs))}
	points := make([]geo.LatLng, 0, len(locs))
	for _, loc := range locs {
		g.Markers = append(g.Markers, Marker{
			ID:       newID(),
			Position: loc.Position(),
			Popup:    loc.DisplayName(),
		})
		points = append(points, loc.Position())
	}
	c.surface.AddGroup(g)
	c.state.overlays.categoryGroup = g.ID

	bounds, _ := geo.BoundsOf(points...)
	c.surface.FitBounds(bounds.Pad(c.opts.BoundsPadding))
	c.state.mode = CategorySweep
}

// ShowRoute draws a walking route between two directory locations. A start
// of "My Location" follows the device position instead.
func (c *Controller) ShowRoute(ctx context.Context, start, end string) error {
	c.Reset()

	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return ErrMissingRouteEnds
	}
	dest, ok := c.dir.FindByName(end)
	if !ok {
		return ErrInvalidEndLocation
	}

	if directory.IsMyLocation(start) {
		if err := c.startWatch(); err != nil {
			return err
		}
		c.state.mode = LiveRoute
		c.state.destination = dest.Position()
		return nil
	}

	origin, ok := c.dir.FindByName(start)
	if !ok {
		return ErrInvalidStartLocation
	}
	overlay := c.newRouteOverlay(origin.Position(), dest.Position())
	if c.opts.Router != nil {
		routes, err := c.opts.Router.Route(ctx, origin.Position(), dest.Position())
		if err != nil {
			c.log.Warn("route failed", "from", origin.Name, "to", dest.Name, "error", err)
			return err
		}
		overlay.Routes = routes
	}
	c.surface.AddRoute(overlay)
	c.state.overlays.route = &overlay
	c.state.mode = StaticRoute
	return nil
}

// ToggleLiveLocation stops tracking when a watch is active, and otherwise
// starts following the device position.
func (c *Controller) ToggleLiveLocation() error {
	if c.state.overlays.watch != "" {
		c.Reset()
		return nil
	}
	c.Reset()
	if err := c.startWatch(); err != nil {
		return err
	}
	c.state.mode = LiveLocationOnly
	return nil
}

// OpenSidebar switches the sidebar content and opens it over a reset map.
func (c *Controller) OpenSidebar(v View) {
	c.Reset()
	c.setPanelView(v)
	c.surface.SetSidebar(true)
	c.state.view.sidebar = true
}

// CloseSidebar hides the sidebar without touching the map.
func (c *Controller) CloseSidebar() { c.closeSidebar() }

// ClosePanel hides the info panel without touching the map.
func (c *Controller) ClosePanel() { c.closeInfoPanel() }

// RequestLogin remembers name for after the login round trip and returns the
// page to navigate to.
func (c *Controller) RequestLogin(ctx context.Context, name string) (string, error) {
	if err := c.session.SetReturnTo(ctx, name); err != nil {
		return "", fmt.Errorf("storing return location: %w", err)
	}
	return auth.LoginPage, nil
}

// Logout clears the tab session and returns the page to reload.
func (c *Controller) Logout(ctx context.Context) (string, error) {
	if err := c.session.Logout(ctx); err != nil {
		return "", fmt.Errorf("logging out: %w", err)
	}
	return auth.MapPage, nil
}

func (c *Controller) startWatch() error {
	h, err := c.geo.Watch(c.opts.Geolocation)
	if err != nil {
		if errors.Is(err, geolocation.ErrUnsupported) {
			return ErrGeolocationUnsupported
		}
		return fmt.Errorf("starting location watch: %w", err)
	}
	c.state.overlays.watch = h
	c.surface.SetLocationToggle(true)
	c.log.Debug("started location watch", "handle", string(h))
	return nil
}

func (c *Controller) newRouteOverlay(from, to geo.LatLng) RouteOverlay {
	return RouteOverlay{
		ID:        newID(),
		Waypoints: [2]geo.LatLng{from, to},
		Options:   defaultRouteOptions(c.opts.RouteProfile),
	}
}

func (c *Controller) setPanelView(v View) {
	c.surface.SetPanelView(v)
	c.state.view.panel = v
}

func (c *Controller) closeInfoPanel() {
	c.surface.CloseInfoPanel()
	c.state.view.info = false
}

func (c *Controller) closeSidebar() {
	c.surface.SetSidebar(false)
	c.state.view.sidebar = false
}

func newID() string { return uuid.NewString() }
