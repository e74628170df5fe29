package geo

import "testing"

func TestBoundsOfEmpty(t *testing.T) {
	if _, ok := BoundsOf(); ok {
		t.Error("expected no bounds for zero points")
	}
}

func TestBoundsOfSinglePointPad(t *testing.T) {
	b, ok := BoundsOf(LatLng{Lat: 27.80, Lng: 75.03})
	if !ok {
		t.Fatal("expected bounds")
	}
	padded := b.Pad(0.1)
	want := Bounds{South: 27.80, West: 75.03, North: 27.80, East: 75.03}
	if padded != want {
		t.Errorf("padded = %+v, want %+v", padded, want)
	}
}

func TestPad(t *testing.T) {
	b, _ := BoundsOf(LatLng{Lat: 10, Lng: 20}, LatLng{Lat: 12, Lng: 24})
	got := b.Pad(0.1)
	want := Bounds{South: 9.8, West: 19.6, North: 12.2, East: 24.4}
	const eps = 1e-9
	if abs(got.South-want.South) > eps || abs(got.West-want.West) > eps ||
		abs(got.North-want.North) > eps || abs(got.East-want.East) > eps {
		t.Errorf("Pad = %+v, want %+v", got, want)
	}
}

func TestContains(t *testing.T) {
	b := Bounds{South: 27.79, West: 75.02, North: 27.81, East: 75.04}
	tests := []struct {
		name string
		p    LatLng
		want bool
	}{
		{"inside", LatLng{Lat: 27.80, Lng: 75.03}, true},
		{"edge", LatLng{Lat: 27.81, Lng: 75.04}, true},
		{"north of", LatLng{Lat: 27.82, Lng: 75.03}, false},
		{"west of", LatLng{Lat: 27.80, Lng: 75.00}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestCenter(t *testing.T) {
	b := Bounds{South: 10, West: 20, North: 12, East: 24}
	if c := b.Center(); c.Lat != 11 || c.Lng != 22 {
		t.Errorf("Center = %+v, want {11 22}", c)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
