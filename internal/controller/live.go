package controller

import (
	"context"

	"github.com/ziadkadry99/campusmap/internal/geolocation"
)

// owns reports whether h is the active watch.
func (c *Controller) owns(h geolocation.Handle) bool {
	return h != "" && h == c.state.overlays.watch
}

// HandlePosition applies a fix from the watch identified by h. Fixes from a
// watch that is no longer active are ignored.
func (c *Controller) HandlePosition(ctx context.Context, h geolocation.Handle, pos geolocation.Position) {
	if !c.owns(h) {
		c.log.Debug("ignoring stale position", "handle", string(h))
		return
	}
	fix := pos.Coords
	o := &c.state.overlays

	if o.liveMarker == "" {
		o.liveMarker = newID()
	}
	c.surface.SetLiveMarker(Marker{ID: o.liveMarker, Position: fix, Popup: liveMarkerPopup})

	switch c.state.mode {
	case LiveLocationOnly:
		if !c.state.centered {
			c.surface.SetView(fix, c.opts.FocusZoom)
			c.state.centered = true
			return
		}
	case LiveRoute:
		now := c.opts.Now()
		if o.route == nil || now.Sub(c.state.lastRecompute) >= c.opts.RouteDebounce {
			c.state.lastRecompute = now
			c.recomputeLiveRoute(ctx, pos)
		}
	}

	if vp, ok := c.surface.Viewport(); !ok || !vp.Contains(fix) {
		c.surface.PanTo(fix)
	}
}

// recomputeLiveRoute re-anchors the route at the latest fix. A routing
// failure keeps the overlay so the user still sees the waypoints.
func (c *Controller) recomputeLiveRoute(ctx context.Context, pos geolocation.Position) {
	o := &c.state.overlays
	var overlay RouteOverlay
	if o.route == nil {
		overlay = c.newRouteOverlay(pos.Coords, c.state.destination)
	} else {
		overlay = *o.route
		overlay.Waypoints[0] = pos.Coords
	}

	if c.opts.Router != nil {
		routes, err := c.opts.Router.Route(ctx, pos.Coords, c.state.destination)
		if err != nil {
			c.log.Warn("live route recompute failed", "error", err)
			overlay.Error = err.Error()
		} else {
			overlay.Routes = routes
			overlay.Error = ""
		}
	}

	if o.route == nil {
		c.surface.AddRoute(overlay)
	} else {
		c.surface.UpdateRoute(overlay)
	}
	o.route = &overlay
}

// HandlePositionError tears down tracking after a provider failure on the
// active watch and returns the error for the user. Failures from an inactive
// watch return nil.
func (c *Controller) HandlePositionError(h geolocation.Handle, gerr *geolocation.Error) error {
	if !c.owns(h) {
		c.log.Debug("ignoring stale position error", "handle", string(h))
		return nil
	}
	c.log.Warn("location watch failed", "code", gerr.Code.String(), "message", gerr.Message)
	c.Reset()
	return gerr
}
