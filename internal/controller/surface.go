package controller

import (
	"github.com/ziadkadry99/campusmap/internal/directory"
	"github.com/ziadkadry99/campusmap/internal/geo"
	"github.com/ziadkadry99/campusmap/internal/routing"
)

// View selects the content of the left sidebar.
type View string

const (
	// ViewSearch shows the search box and the category directory.
	ViewSearch View = "search"
	// ViewRoute shows the start/end route form.
	ViewRoute View = "route"
)

// ParseView maps a client view name onto a View.
func ParseView(s string) (View, bool) {
	switch View(s) {
	case ViewSearch, ViewRoute:
		return View(s), true
	}
	return "", false
}

// Marker is a single pin on the map.
type Marker struct {
	ID        string     `json:"id"`
	Position  geo.LatLng `json:"position"`
	Popup     string     `json:"popup"`
	OpenPopup bool       `json:"open_popup,omitempty"`
}

// MarkerGroup is a set of markers added and removed as one unit.
type MarkerGroup struct {
	ID      string   `json:"id"`
	Markers []Marker `json:"markers"`
}

// RouteOptions mirrors the routing control settings of the map page.
type RouteOptions struct {
	ShowAlternatives  bool   `json:"show_alternatives"`
	Draggable         bool   `json:"draggable_waypoints"`
	AddWaypoints      bool   `json:"add_waypoints"`
	RouteWhileDrag    bool   `json:"route_while_dragging"`
	FitSelectedRoutes bool   `json:"fit_selected_routes"`
	Profile           string `json:"profile"`
}

func defaultRouteOptions(profile string) RouteOptions {
	return RouteOptions{
		ShowAlternatives:  true,
		FitSelectedRoutes: true,
		Profile:           profile,
	}
}

// RouteOverlay is the routing line between two waypoints. Routes is empty
// when no router is configured, in which case the client asks the routing
// service itself.
type RouteOverlay struct {
	ID        string          `json:"id"`
	Waypoints [2]geo.LatLng   `json:"waypoints"`
	Routes    []routing.Route `json:"routes"`
	Options   RouteOptions    `json:"options"`
	Error     string          `json:"error,omitempty"`
}

// ContactInfo is the contact block shown to logged-in users.
type ContactInfo struct {
	Phone       string                      `json:"phone,omitempty"`
	Email       string                      `json:"email,omitempty"`
	Departments []directory.DepartmentEmail `json:"departments,omitempty"`
	// Note replaces the block when the location has no contact details.
	Note string `json:"note,omitempty"`
}

// LoginPrompt is the affordance shown instead of contacts to anonymous users.
type LoginPrompt struct {
	Text         string `json:"text"`
	LocationName string `json:"location_name"`
}

// InfoPanel is the right-hand detail panel for one location.
type InfoPanel struct {
	Name            string       `json:"name"`
	Category        string       `json:"category"`
	DescriptionHTML string       `json:"description_html"`
	Timing          string       `json:"timing"`
	ImageURL        string       `json:"image_url,omitempty"`
	Contact         *ContactInfo `json:"contact,omitempty"`
	Login           *LoginPrompt `json:"login,omitempty"`
}

// Surface is the rendered map page. Calls are commands; the surface does not
// call back into the controller.
type Surface interface {
	AddMarker(m Marker)
	RemoveMarker(id string)
	AddGroup(g MarkerGroup)
	RemoveGroup(id string)
	AddRoute(r RouteOverlay)
	UpdateRoute(r RouteOverlay)
	RemoveRoute(id string)
	// SetLiveMarker creates the live-location marker or moves it in place.
	SetLiveMarker(m Marker)
	RemoveLiveMarker(id string)

	SetView(center geo.LatLng, zoom int)
	FitBounds(b geo.Bounds)
	PanTo(p geo.LatLng)
	// Viewport is the last reported visible area, false if none was reported.
	Viewport() (geo.Bounds, bool)

	ShowInfoPanel(p InfoPanel)
	CloseInfoPanel()
	SetSidebar(open bool)
	SetPanelView(v View)
	SetLocationToggle(active bool)
}
