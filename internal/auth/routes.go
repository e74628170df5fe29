package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/campusmap/internal/logging"
	"github.com/ziadkadry99/campusmap/internal/session"
)

type loginRequest struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type logoutRequest struct {
	SessionID string `json:"session_id"`
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// RegisterRoutes mounts POST /api/login and POST /api/logout. Login is
// guarded by limiter when it is non-nil.
func RegisterRoutes(r chi.Router, gate *Gate, sessions *session.Manager, limiter *IPRateLimiter) {
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Post("/api/login", handleLogin(gate, sessions))
	})
	r.Post("/api/logout", handleLogout(sessions, gate.log))
}

func handleLogin(gate *Gate, sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: "bad_request"})
			return
		}
		tab, err := sessions.Tab(req.SessionID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "bad_request"})
			return
		}
		ctx := context.WithValue(r.Context(), logging.SessionIDKey, tab.ID())

		target, err := gate.Login(ctx, tab, req.Email, req.Password)
		if err != nil {
			writeJSON(w, statusFor(err), errorResponse{Error: UserMessage(err), Kind: kindFor(err)})
			return
		}
		writeJSON(w, http.StatusOK, redirectResponse{Redirect: target})
	}
}

func handleLogout(sessions *session.Manager, log *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req logoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: "bad_request"})
			return
		}
		tab, err := sessions.Tab(req.SessionID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "bad_request"})
			return
		}
		if err := tab.Logout(r.Context()); err != nil {
			log.Error("logout failed", "session_id", tab.ID(), "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "internal"})
			return
		}
		log.WithSession(tab.ID()).AuthEvent("logout", "", true, "")
		writeJSON(w, http.StatusOK, redirectResponse{Redirect: MapPage})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidEmailFormat):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUserDataUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func kindFor(err error) string {
	switch {
	case errors.Is(err, ErrInvalidEmailFormat):
		return "invalid_email"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrUserDataUnavailable):
		return "unavailable"
	default:
		return "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
