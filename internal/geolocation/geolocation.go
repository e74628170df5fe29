// Package geolocation models the host's continuous position watch as a
// cancellable subscription. Every watch is identified by a Handle; events
// carry the handle of the watch that produced them so that a consumer can
// drop anything that does not belong to its active subscription.
package geolocation

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/campusmap/internal/geo"
)

// Handle identifies one watch subscription. The zero value means "no watch".
type Handle string

// NewHandle returns a handle that is never reused.
func NewHandle() Handle { return Handle(uuid.NewString()) }

// Options configures the provider-side acquisition of fixes.
type Options struct {
	HighAccuracy       bool          `json:"enableHighAccuracy"`
	MaxCachedFixAge    time.Duration `json:"-"`
	AcquisitionTimeout time.Duration `json:"-"`
}

// DefaultOptions matches the settings the map has always used.
var DefaultOptions = Options{
	HighAccuracy:       true,
	MaxCachedFixAge:    10 * time.Second,
	AcquisitionTimeout: 20 * time.Second,
}

// Wire is the browser PositionOptions shape, with durations in milliseconds.
func (o Options) Wire() map[string]any {
	return map[string]any{
		"enableHighAccuracy": o.HighAccuracy,
		"maximumAge":         o.MaxCachedFixAge.Milliseconds(),
		"timeout":            o.AcquisitionTimeout.Milliseconds(),
	}
}

// Position is one fix.
type Position struct {
	Coords   geo.LatLng
	Accuracy float64
	At       time.Time
}

// ErrorCode follows the W3C GeolocationPositionError codes.
type ErrorCode int

const (
	CodeUnknown             ErrorCode = 0
	CodePermissionDenied    ErrorCode = 1
	CodePositionUnavailable ErrorCode = 2
	CodeTimeout             ErrorCode = 3
)

func (c ErrorCode) String() string {
	switch c {
	case CodePermissionDenied:
		return "permission denied"
	case CodePositionUnavailable:
		return "position unavailable"
	case CodeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is a provider-reported failure to obtain a fix.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("geolocation: %s", e.Code)
	}
	return fmt.Sprintf("geolocation: %s", e.Message)
}

// ErrUnsupported is returned by providers that cannot watch positions at all.
var ErrUnsupported = errors.New("geolocation not supported")

// Event is one item of a watch subscription: a fix or an error.
type Event struct {
	Handle   Handle
	Position Position
	Err      *Error
}

// Provider starts and cancels watches. Implementations deliver events for a
// handle until ClearWatch is called with it; ClearWatch is synchronous from
// the caller's point of view and must tolerate unknown handles.
type Provider interface {
	Watch(opts Options) (Handle, error)
	ClearWatch(h Handle)
}
