// Package mapsocket connects a map page to its controller over a websocket.
// Inbound messages of one connection are handled one at a time by the
// goroutine that reads them, so the controller never sees concurrent calls.
package mapsocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/campusmap/internal/controller"
	"github.com/ziadkadry99/campusmap/internal/directory"
	"github.com/ziadkadry99/campusmap/internal/geo"
	"github.com/ziadkadry99/campusmap/internal/geolocation"
	"github.com/ziadkadry99/campusmap/internal/logging"
	"github.com/ziadkadry99/campusmap/internal/session"
)

const loggedOutMessage = "You have been logged out."

// Config wires a Handler.
type Config struct {
	Directory  *directory.Directory
	Sessions   *session.Manager
	Controller controller.Options
	Center     geo.LatLng
	Zoom       int
	Tiles      []Tile
	Logger     *logging.Logger

	// AllowedOrigins are glob patterns such as "http://localhost:*" matched
	// against the Origin header. Same-host origins are always accepted.
	AllowedOrigins []string
	AllowAll       bool
}

// Handler serves /ws/map.
type Handler struct {
	cfg      Config
	log      *logging.Logger
	upgrader websocket.Upgrader
}

// New creates a Handler.
func New(cfg Config) *Handler {
	if len(cfg.Tiles) == 0 {
		cfg.Tiles = DefaultTiles
	}
	if cfg.Zoom == 0 {
		cfg.Zoom = 16
	}
	log := logging.Or(cfg.Logger)
	if cfg.Controller.Logger == nil {
		cfg.Controller.Logger = log
	}
	h := &Handler{cfg: cfg, log: log}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

// checkOrigin accepts requests with no Origin header (non-browser clients),
// same-host origins, and origins matching the allow-list.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.cfg.AllowAll {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	origin = strings.ToLower(origin)
	for _, pattern := range h.cfg.AllowedOrigins {
		if ok, _ := doublestar.Match(strings.ToLower(pattern), origin); ok {
			return true
		}
	}
	h.log.Warn("websocket origin rejected", "origin", origin)
	return false
}

// RegisterRoutes mounts the websocket endpoint.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/ws/map", h.ServeHTTP)
}

// ServeHTTP upgrades the request and runs the tab until the socket closes.
// The session id comes from ?session=, and ?geolocation=false tells the
// server that the browser has no geolocation API.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tab, err := h.cfg.Sessions.Tab(r.URL.Query().Get("session"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	log := h.log.WithSession(tab.ID())
	c := &conn{
		ws:           ws,
		log:          log,
		geoSupported: r.URL.Query().Get("geolocation") != "false",
	}
	opts := h.cfg.Controller
	opts.Logger = log
	if opts.Geolocation == (geolocation.Options{}) {
		opts.Geolocation = geolocation.DefaultOptions
	}
	ctrl := controller.New(h.cfg.Directory, tab, c, c, opts)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), logging.SessionIDKey, tab.ID()))
	defer cancel()

	loggedIn, err := tab.IsLoggedIn(ctx)
	if err != nil {
		log.Warn("reading login state", "error", err)
	}
	c.send("init", initData{
		Names:       h.cfg.Directory.Names(),
		Categories:  h.cfg.Directory.ListCategories(),
		Center:      h.cfg.Center,
		Zoom:        h.cfg.Zoom,
		Tiles:       h.cfg.Tiles,
		LoggedIn:    loggedIn,
		Geolocation: opts.Geolocation.Wire(),
	})
	if err := ctrl.Start(ctx); err != nil {
		h.fail(c, log, err)
	}
	log.Debug("map connection opened")

	done := make(chan struct{})
	defer close(done)
	go keepAlive(c, done)

	ws.SetReadLimit(maxMessage)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("websocket read", "error", err)
			}
			break
		}
		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.send("error", alertData{Message: "invalid message format"})
			continue
		}
		if err := h.cfg.Sessions.Touch(ctx, tab.ID()); err != nil {
			log.Debug("touching session", "error", err)
		}
		h.dispatch(ctx, ctrl, c, log, msg)
	}

	c.markClosed()
	ctrl.Reset()
	log.Debug("map connection closed")
}

func (h *Handler) dispatch(ctx context.Context, ctrl *controller.Controller, c *conn, log *logging.Logger, msg inbound) {
	var err error
	switch msg.Type {
	case msgSearch:
		err = ctrl.ShowSingleLocation(ctx, msg.Name)
	case msgCategory:
		ctrl.ShowCategory(msg.Name)
	case msgRoute:
		err = ctrl.ShowRoute(ctx, msg.Start, msg.End)
	case msgToggleLocation:
		err = ctrl.ToggleLiveLocation()
	case msgOpenSidebar:
		v, ok := controller.ParseView(msg.View)
		if !ok {
			c.send("error", alertData{Message: "unknown view: " + msg.View})
			return
		}
		ctrl.OpenSidebar(v)
	case msgCloseSidebar:
		ctrl.CloseSidebar()
	case msgClosePanel:
		ctrl.ClosePanel()
	case msgRequestLogin:
		var page string
		if page, err = ctrl.RequestLogin(ctx, msg.Name); err == nil {
			c.navigate(page)
		}
	case msgLogout:
		var page string
		if page, err = ctrl.Logout(ctx); err == nil {
			c.alert(loggedOutMessage)
			c.navigate(page)
		}
	case msgPosition:
		ctrl.HandlePosition(ctx, geolocation.Handle(msg.Handle), geolocation.Position{
			Coords:   geo.LatLng{Lat: msg.Lat, Lng: msg.Lng},
			Accuracy: msg.Accuracy,
			At:       time.Now(),
		})
	case msgPositionError:
		err = ctrl.HandlePositionError(geolocation.Handle(msg.Handle), &geolocation.Error{
			Code:    geolocation.ErrorCode(msg.Code),
			Message: msg.Message,
		})
	case msgViewport:
		c.viewport = geo.Bounds{South: msg.South, West: msg.West, North: msg.North, East: msg.East}
		c.hasViewport = true
	default:
		c.send("error", alertData{Message: "unknown message type: " + msg.Type})
		return
	}
	if err != nil {
		h.fail(c, log, err)
	}
}

// fail reports an operation error to the user.
func (h *Handler) fail(c *conn, log *logging.Logger, err error) {
	log.Debug("operation failed", "error", err)
	c.alert(controller.UserMessage(err))
}

func keepAlive(c *conn, done <-chan struct{}) {
	t := time.NewTicker(pingPeriod)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
