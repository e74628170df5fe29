package mapsocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/campusmap/internal/controller"
	"github.com/ziadkadry99/campusmap/internal/geo"
	"github.com/ziadkadry99/campusmap/internal/geolocation"
	"github.com/ziadkadry99/campusmap/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 8 << 10
)

// Location toggle looks.
var (
	toggleInactive = toggleData{Active: false, Label: "LOC", Title: "Show My Location"}
	toggleActive   = toggleData{Active: true, Label: "X", Title: "Stop Tracking"}
)

// conn is one tab's socket. It renders controller commands and proxies the
// browser's geolocation API.
type conn struct {
	ws  *websocket.Conn
	log *logging.Logger

	mu     sync.Mutex
	closed bool

	viewport     geo.Bounds
	hasViewport  bool
	geoSupported bool
}

var (
	_ controller.Surface   = (*conn)(nil)
	_ geolocation.Provider = (*conn)(nil)
)

func (c *conn) send(typ string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	msg, err := json.Marshal(command{Type: typ, Data: data})
	if err != nil {
		c.log.Error("encoding command", "type", typ, "error", err)
		return
	}
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
		c.log.Debug("websocket write failed", "type", typ, "error", err)
		c.closed = true
	}
}

// markClosed stops all further writes.
func (c *conn) markClosed() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *conn) ping() error {
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (c *conn) alert(msg string) { c.send("alert", alertData{Message: msg}) }

func (c *conn) navigate(url string) { c.send("navigate", navigateData{URL: url}) }

// Surface

func (c *conn) AddMarker(m controller.Marker)         { c.send("marker_add", m) }
func (c *conn) RemoveMarker(id string)                { c.send("marker_remove", idData{ID: id}) }
func (c *conn) AddGroup(g controller.MarkerGroup)     { c.send("group_add", g) }
func (c *conn) RemoveGroup(id string)                 { c.send("group_remove", idData{ID: id}) }
func (c *conn) AddRoute(r controller.RouteOverlay)    { c.send("route_add", r) }
func (c *conn) UpdateRoute(r controller.RouteOverlay) { c.send("route_update", r) }
func (c *conn) RemoveRoute(id string)                 { c.send("route_remove", idData{ID: id}) }
func (c *conn) SetLiveMarker(m controller.Marker)     { c.send("live_marker_set", m) }
func (c *conn) RemoveLiveMarker(id string)            { c.send("live_marker_remove", idData{ID: id}) }
func (c *conn) FitBounds(b geo.Bounds)                { c.send("fit_bounds", b) }
func (c *conn) PanTo(p geo.LatLng)                    { c.send("pan_to", p) }
func (c *conn) ShowInfoPanel(p controller.InfoPanel)  { c.send("info_panel_show", p) }
func (c *conn) CloseInfoPanel()                       { c.send("info_panel_close", nil) }
func (c *conn) SetSidebar(open bool)                  { c.send("sidebar", sidebarData{Open: open}) }

func (c *conn) SetView(center geo.LatLng, zoom int) {
	c.send("set_view", viewData{Center: center, Zoom: zoom})
}

func (c *conn) Viewport() (geo.Bounds, bool) { return c.viewport, c.hasViewport }

func (c *conn) SetPanelView(v controller.View) {
	c.send("view", panelViewData{View: string(v), DirectoryVisible: v == controller.ViewSearch})
}

func (c *conn) SetLocationToggle(active bool) {
	if active {
		c.send("location_toggle", toggleActive)
		return
	}
	c.send("location_toggle", toggleInactive)
}

// Provider

func (c *conn) Watch(opts geolocation.Options) (geolocation.Handle, error) {
	if !c.geoSupported {
		return "", geolocation.ErrUnsupported
	}
	h := geolocation.NewHandle()
	c.send("watch_start", watchData{Handle: string(h), Options: opts.Wire()})
	return h, nil
}

func (c *conn) ClearWatch(h geolocation.Handle) {
	c.send("watch_clear", watchData{Handle: string(h)})
}
