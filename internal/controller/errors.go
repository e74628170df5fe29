package controller

import (
	"errors"
	"fmt"

	"github.com/ziadkadry99/campusmap/internal/directory"
	"github.com/ziadkadry99/campusmap/internal/geolocation"
	"github.com/ziadkadry99/campusmap/internal/routing"
)

var (
	ErrNotFound               = errors.New("location not found")
	ErrEmptyQuery             = errors.New("empty search query")
	ErrMissingRouteEnds       = errors.New("start and end location required")
	ErrInvalidStartLocation   = errors.New("invalid start location")
	ErrInvalidEndLocation     = errors.New("invalid end location")
	ErrGeolocationUnsupported = errors.New("geolocation not supported")
)

// NotFoundError carries the name that failed to resolve.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("location not found: %q", e.Name) }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// UserMessage returns the alert text shown for an operation error.
func UserMessage(err error) string {
	var nf *NotFoundError
	var geoErr *geolocation.Error
	switch {
	case errors.As(err, &nf):
		return "Could not find the location: " + nf.Name
	case errors.Is(err, ErrEmptyQuery):
		return "Please enter a location to search for."
	case errors.Is(err, ErrMissingRouteEnds):
		return "Please enter both a start and end location!"
	case errors.Is(err, ErrInvalidEndLocation):
		return "Invalid end location. Please select from the list."
	case errors.Is(err, ErrInvalidStartLocation):
		return "Invalid start location. Please select from the list."
	case errors.Is(err, ErrGeolocationUnsupported), errors.Is(err, geolocation.ErrUnsupported):
		return "Geolocation is not supported by your browser."
	case errors.As(err, &geoErr):
		msg := geoErr.Message
		if msg == "" {
			msg = geoErr.Code.String()
		}
		return "Error getting your location: " + msg
	case errors.Is(err, routing.ErrRouteUnavailable):
		return "Could not compute a walking route. Please try again."
	case errors.Is(err, directory.ErrLocationDataUnavailable):
		return "Could not load location data. Please try again later."
	default:
		return "Something went wrong. Please try again."
	}
}
