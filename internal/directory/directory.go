// Package directory holds the read-only list of campus locations and the
// lookups the map performs against it.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/ziadkadry99/campusmap/internal/source"
)

// MyLocation is the autocomplete sentinel that starts a live route.
const MyLocation = "My Location"

// ErrLocationDataUnavailable is returned when the directory file cannot be
// fetched or parsed. Nothing can be looked up without it.
var ErrLocationDataUnavailable = errors.New("location data unavailable")

// Directory is an ordered, immutable sequence of locations.
type Directory struct {
	locations []Location
}

// New builds a directory from already decoded locations. The slice is copied.
func New(locations []Location) *Directory {
	cp := make([]Location, len(locations))
	copy(cp, locations)
	return &Directory{locations: cp}
}

// Parse decodes a JSON array of locations.
func Parse(r io.Reader) (*Directory, error) {
	var locs []Location
	if err := json.NewDecoder(r).Decode(&locs); err != nil {
		return nil, fmt.Errorf("%w: decoding locations: %v", ErrLocationDataUnavailable, err)
	}
	return &Directory{locations: locs}, nil
}

// Load reads the directory from a file, glob or URL. Multiple documents from a
// glob are concatenated in path order.
func Load(ctx context.Context, client *http.Client, location string) (*Directory, error) {
	docs, err := source.ReadAll(ctx, client, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocationDataUnavailable, err)
	}

	var all []Location
	for _, doc := range docs {
		d, err := Parse(bytes.NewReader(doc))
		if err != nil {
			return nil, err
		}
		all = append(all, d.locations...)
	}
	return &Directory{locations: all}, nil
}

// Len returns the number of locations.
func (d *Directory) Len() int { return len(d.locations) }

// All returns a copy of every location in source order.
func (d *Directory) All() []Location {
	cp := make([]Location, len(d.locations))
	copy(cp, d.locations)
	return cp
}

// FindByName returns the first location whose trimmed, lower-cased name equals
// the trimmed, lower-cased query. It is not a prefix or fuzzy match.
func (d *Directory) FindByName(name string) (Location, bool) {
	key := normalize(name)
	if key == "" {
		return Location{}, false
	}
	for _, l := range d.locations {
		if l.Key() == key {
			return l, true
		}
	}
	return Location{}, false
}

// FilterByCategory returns every location whose category equals category
// exactly. Category values are taken as canonical from the source data.
func (d *Directory) FilterByCategory(category string) []Location {
	var out []Location
	for _, l := range d.locations {
		if l.Category == category {
			out = append(out, l)
		}
	}
	return out
}

// ListCategories returns the distinct categories, sorted.
func (d *Directory) ListCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range d.locations {
		if seen[l.Category] {
			continue
		}
		seen[l.Category] = true
		out = append(out, l.Category)
	}
	sort.Strings(out)
	return out
}

// Names returns the autocomplete list: the live-location sentinel followed by
// every trimmed location name in source order.
func (d *Directory) Names() []string {
	out := make([]string, 0, len(d.locations)+1)
	out = append(out, MyLocation)
	for _, l := range d.locations {
		out = append(out, l.DisplayName())
	}
	return out
}

// IsMyLocation reports whether s names the live-location sentinel.
func IsMyLocation(s string) bool {
	return normalize(s) == normalize(MyLocation)
}
