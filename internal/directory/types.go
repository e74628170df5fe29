package directory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ziadkadry99/campusmap/internal/geo"
)

// nilValue is the placeholder the source data uses for "no contact".
const nilValue = "NIL"

// Location is one campus place as stored in the directory file.
type Location struct {
	Name        string       `json:"NAME"`
	Category    string       `json:"CATEGORY"`
	Latitude    float64      `json:"LATITUDE"`
	Longitude   float64      `json:"LONGITUDE"`
	Description string       `json:"DESCRIPTION"`
	Timing      string       `json:"TIMING"`
	ImageURL    string       `json:"IMAGE_URL,omitempty"`
	Phone       string       `json:"CONTACTS,omitempty"`
	Email       EmailContact `json:"EMAIL"`
}

// DepartmentEmail is one entry of a per-department email mapping.
type DepartmentEmail struct {
	Department string `json:"department"`
	Email      string `json:"email"`
}

// EmailContact is either a single address or an ordered department mapping.
type EmailContact struct {
	Single      string
	Departments []DepartmentEmail
}

// IsEmpty reports whether no usable address is present.
func (e EmailContact) IsEmpty() bool {
	return !isValue(e.Single) && len(e.Departments) == 0
}

// UnmarshalJSON accepts a string, an object of department to address, or null.
func (e *EmailContact) UnmarshalJSON(data []byte) error {
	*e = EmailContact{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '"':
		return json.Unmarshal(trimmed, &e.Single)
	case '{':
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		if _, err := dec.Token(); err != nil {
			return err
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			dept, _ := tok.(string)
			var addr string
			if err := dec.Decode(&addr); err != nil {
				return fmt.Errorf("email for %q: %w", dept, err)
			}
			e.Departments = append(e.Departments, DepartmentEmail{Department: dept, Email: addr})
		}
		return nil
	default:
		return fmt.Errorf("unsupported EMAIL value %s", trimmed)
	}
}

// MarshalJSON writes the contact back in the source shape.
func (e EmailContact) MarshalJSON() ([]byte, error) {
	if len(e.Departments) == 0 {
		if e.Single == "" {
			return []byte(`"NIL"`), nil
		}
		return json.Marshal(e.Single)
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range e.Departments {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(d.Department)
		v, _ := json.Marshal(d.Email)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// rawLocation tolerates numbers-as-strings for coordinates and phone numbers.
type rawLocation struct {
	Name        string          `json:"NAME"`
	Category    string          `json:"CATEGORY"`
	Latitude    json.RawMessage `json:"LATITUDE"`
	Longitude   json.RawMessage `json:"LONGITUDE"`
	Description string          `json:"DESCRIPTION"`
	Timing      string          `json:"TIMING"`
	ImageURL    *string         `json:"IMAGE_URL"`
	Contacts    json.RawMessage `json:"CONTACTS"`
	Email       EmailContact    `json:"EMAIL"`
}

// UnmarshalJSON decodes a directory entry.
func (l *Location) UnmarshalJSON(data []byte) error {
	var raw rawLocation
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	lat, err := number(raw.Latitude)
	if err != nil {
		return fmt.Errorf("location %q: LATITUDE: %w", raw.Name, err)
	}
	lng, err := number(raw.Longitude)
	if err != nil {
		return fmt.Errorf("location %q: LONGITUDE: %w", raw.Name, err)
	}
	phone, err := text(raw.Contacts)
	if err != nil {
		return fmt.Errorf("location %q: CONTACTS: %w", raw.Name, err)
	}

	*l = Location{
		Name:        raw.Name,
		Category:    raw.Category,
		Latitude:    lat,
		Longitude:   lng,
		Description: raw.Description,
		Timing:      raw.Timing,
		Phone:       phone,
		Email:       raw.Email,
	}
	if raw.ImageURL != nil {
		l.ImageURL = *raw.ImageURL
	}
	return nil
}

// Key is the identity used for name lookups.
func (l Location) Key() string { return normalize(l.Name) }

// DisplayName is the name with surrounding whitespace removed.
func (l Location) DisplayName() string { return strings.TrimSpace(l.Name) }

// Position returns the location's coordinate.
func (l Location) Position() geo.LatLng {
	return geo.LatLng{Lat: l.Latitude, Lng: l.Longitude}
}

// HasPhone reports whether a real phone number is present.
func (l Location) HasPhone() bool { return isValue(l.Phone) }

// HasImage reports whether an image URL is present.
func (l Location) HasImage() bool { return strings.TrimSpace(l.ImageURL) != "" }

func isValue(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != nilValue
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func number(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("missing coordinate")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, err
	}
	return f, nil
}

func text(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
