package session

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type sessionResponse struct {
	SessionID string `json:"session_id"`
	LoggedIn  bool   `json:"logged_in"`
	Email     string `json:"email,omitempty"`
}

// RegisterRoutes mounts the session endpoints under /api/session.
func RegisterRoutes(r chi.Router, m *Manager) {
	r.Route("/api/session", func(r chi.Router) {
		r.Post("/", handleCreate())
		r.Get("/{id}", handleGet(m))
	})
}

// handleCreate issues an id; nothing is stored until the tab logs in.
func handleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, sessionResponse{SessionID: NewID()})
	}
}

func handleGet(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab, err := m.Tab(chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		ctx := r.Context()
		loggedIn, err := tab.IsLoggedIn(ctx)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		resp := sessionResponse{SessionID: tab.ID(), LoggedIn: loggedIn}
		if loggedIn {
			resp.Email, _, _ = tab.UserEmail(ctx)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
