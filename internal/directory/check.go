package directory

import (
	"fmt"
	"strings"
)

// Problems lists the data issues of one record. An empty result means the
// record can be searched and drawn.
func (l Location) Problems() []string {
	var out []string
	if l.Key() == "" {
		out = append(out, "missing name")
	}
	if strings.TrimSpace(l.Category) == "" {
		out = append(out, "missing category")
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		out = append(out, fmt.Sprintf("latitude %f out of range", l.Latitude))
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		out = append(out, fmt.Sprintf("longitude %f out of range", l.Longitude))
	}
	if l.Latitude == 0 && l.Longitude == 0 {
		out = append(out, "coordinates are 0,0")
	}
	if IsMyLocation(l.Name) {
		out = append(out, fmt.Sprintf("name collides with %q", MyLocation))
	}
	return out
}

// Duplicates returns names that more than one record normalizes to. Only the
// first of them is reachable by name.
func (d *Directory) Duplicates() []string {
	count := make(map[string]int)
	var out []string
	for _, l := range d.locations {
		k := l.Key()
		if k == "" {
			continue
		}
		count[k]++
		if count[k] == 2 {
			out = append(out, l.DisplayName())
		}
	}
	return out
}
