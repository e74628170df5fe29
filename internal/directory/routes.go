package directory

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// PublicLocation is the part of a location shown to anonymous visitors.
type PublicLocation struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`
	Timing      string  `json:"timing"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Public strips contact details.
func (l Location) Public() PublicLocation {
	return PublicLocation{
		Name:        l.DisplayName(),
		Category:    l.Category,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		Description: l.Description,
		Timing:      l.Timing,
		ImageURL:    l.ImageURL,
	}
}

type listResponse struct {
	Names      []string `json:"names"`
	Categories []string `json:"categories"`
}

// RegisterRoutes mounts read-only directory endpoints under /api.
func RegisterRoutes(r chi.Router, dir *Directory) {
	r.Get("/api/locations", handleList(dir))
	r.Get("/api/locations/{name}", handleGet(dir))
	r.Get("/api/categories", handleCategories(dir))
	r.Get("/api/categories/{category}", handleCategory(dir))
}

func handleList(dir *Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, listResponse{
			Names:      dir.Names(),
			Categories: dir.ListCategories(),
		})
	}
}

func handleGet(dir *Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := url.PathUnescape(chi.URLParam(r, "name"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid name"})
			return
		}
		loc, ok := dir.FindByName(name)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "location not found"})
			return
		}
		writeJSON(w, http.StatusOK, loc.Public())
	}
}

func handleCategories(dir *Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dir.ListCategories())
	}
}

func handleCategory(dir *Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := url.PathUnescape(chi.URLParam(r, "category"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category"})
			return
		}
		locs := dir.FilterByCategory(category)
		out := make([]PublicLocation, 0, len(locs))
		for _, l := range locs {
			out = append(out, l.Public())
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
