package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/ziadkadry99/campusmap/internal/logging"
	"github.com/ziadkadry99/campusmap/internal/session"
)

func newTestRouter(limiter *IPRateLimiter) (*chi.Mux, *session.Manager) {
	sessions := session.NewManager(session.NewMemoryStore())
	gate := NewGate(StaticUsers{{Email: "john.cs@modyuniversity.ac.in", Password: "secret"}}, logging.Discard())
	r := chi.NewRouter()
	RegisterRoutes(r, gate, sessions, limiter)
	return r, sessions
}

func post(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.RemoteAddr = "192.0.2.1:5555"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginRoute(t *testing.T) {
	r, sessions := newTestRouter(nil)
	id := session.NewID()

	w := post(r, "/api/login", loginRequest{SessionID: id, Email: "john.cs@modyuniversity.ac.in", Password: "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp redirectResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Redirect != "index.html" {
		t.Errorf("redirect = %q", resp.Redirect)
	}

	tab, _ := sessions.Tab(id)
	if ok, _ := tab.IsLoggedIn(context.Background()); !ok {
		t.Error("tab not logged in")
	}
}

func TestLoginRouteErrors(t *testing.T) {
	r, _ := newTestRouter(nil)
	tests := []struct {
		name     string
		req      loginRequest
		wantCode int
		wantKind string
	}{
		{"bad email", loginRequest{SessionID: session.NewID(), Email: "john", Password: "secret"}, http.StatusBadRequest, "invalid_email"},
		{"bad password", loginRequest{SessionID: session.NewID(), Email: "john.cs@modyuniversity.ac.in", Password: "nope"}, http.StatusUnauthorized, "invalid_credentials"},
		{"bad session", loginRequest{SessionID: "x", Email: "john.cs@modyuniversity.ac.in", Password: "secret"}, http.StatusBadRequest, "bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(r, "/api/login", tt.req)
			if w.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", w.Code, tt.wantCode)
			}
			var resp errorResponse
			json.NewDecoder(w.Body).Decode(&resp)
			if resp.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", resp.Kind, tt.wantKind)
			}
		})
	}
}

func TestLogoutRoute(t *testing.T) {
	r, sessions := newTestRouter(nil)
	ctx := context.Background()
	id := session.NewID()
	tab, _ := sessions.Tab(id)
	tab.Login(ctx, "john.cs@modyuniversity.ac.in")
	tab.SetReturnTo(ctx, "Library")

	w := post(r, "/api/logout", logoutRequest{SessionID: id})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ok, _ := tab.IsLoggedIn(ctx); ok {
		t.Error("still logged in after logout")
	}
	if _, ok, _ := tab.ConsumeReturnTo(ctx); ok {
		t.Error("return location survived logout")
	}
}

func TestLoginRateLimited(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0), 2, logging.Discard())
	r, _ := newTestRouter(limiter)

	bad := loginRequest{SessionID: session.NewID(), Email: "john.cs@modyuniversity.ac.in", Password: "nope"}
	for i := 0; i < 2; i++ {
		if w := post(r, "/api/login", bad); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: code = %d", i, w.Code)
		}
	}
	w := post(r, "/api/login", bad)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}

	// Logout is not limited.
	if w := post(r, "/api/logout", logoutRequest{SessionID: session.NewID()}); w.Code != http.StatusOK {
		t.Errorf("logout code = %d", w.Code)
	}
}

func TestLimiterPerIP(t *testing.T) {
	l := NewLoginRateLimiter(logging.Discard())
	for i := 0; i < 5; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("attempt %d rejected within burst", i)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("sixth attempt should be rejected")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("other IP should have its own bucket")
	}
}
