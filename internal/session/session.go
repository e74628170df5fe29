// Package session is the tab-scoped state shared between the login page and
// the map page: the login flag, the logged-in email and the deferred
// "return to location" marker. A tab keeps its session id in its own
// sessionStorage, so state never outlives the tab.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Keys under which the tab state is stored.
const (
	KeyLoggedIn = "isLoggedIn"
	KeyEmail    = "userEmail"
	KeyReturnTo = "returnToLocationName"
)

// ErrInvalidID is returned for session ids that were not issued by NewID.
var ErrInvalidID = errors.New("invalid session id")

// NewID issues a fresh session id.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id has the shape of an issued session id.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Manager hands out per-tab views over a Store.
type Manager struct {
	store Store
}

// NewManager creates a Manager over store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Tab returns the state of one tab.
func (m *Manager) Tab(id string) (*Tab, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	return &Tab{store: m.store, id: id}, nil
}

// Touch records activity on the tab so it is not purged.
func (m *Manager) Touch(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	return m.store.Touch(ctx, id)
}

// PurgeIdle removes tabs idle for longer than ttl.
func (m *Manager) PurgeIdle(ctx context.Context, ttl time.Duration) (int, error) {
	return m.store.Purge(ctx, time.Now().Add(-ttl))
}

// Tab is the session state of one browser tab.
type Tab struct {
	store Store
	id    string
}

// ID returns the session id.
func (t *Tab) ID() string { return t.id }

// IsLoggedIn reports whether the login flag is set to "true".
func (t *Tab) IsLoggedIn(ctx context.Context) (bool, error) {
	v, ok, err := t.store.Get(ctx, t.id, KeyLoggedIn)
	if err != nil {
		return false, err
	}
	return ok && v == "true", nil
}

// UserEmail returns the logged-in email, if any.
func (t *Tab) UserEmail(ctx context.Context) (string, bool, error) {
	return t.store.Get(ctx, t.id, KeyEmail)
}

// Login sets the login flag and the matched email.
func (t *Tab) Login(ctx context.Context, email string) error {
	if err := t.store.Set(ctx, t.id, KeyLoggedIn, "true"); err != nil {
		return fmt.Errorf("storing login flag: %w", err)
	}
	if err := t.store.Set(ctx, t.id, KeyEmail, email); err != nil {
		return fmt.Errorf("storing user email: %w", err)
	}
	return nil
}

// Logout destroys the tab state, including any pending return location.
func (t *Tab) Logout(ctx context.Context) error {
	return t.store.Delete(ctx, t.id, KeyLoggedIn, KeyEmail, KeyReturnTo)
}

// SetReturnTo records the location to reopen after the next login.
func (t *Tab) SetReturnTo(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return t.store.Set(ctx, t.id, KeyReturnTo, name)
}

// ConsumeReturnTo returns the pending return location and clears it, so a
// later page load does not reopen it.
func (t *Tab) ConsumeReturnTo(ctx context.Context) (string, bool, error) {
	v, ok, err := t.store.Take(ctx, t.id, KeyReturnTo)
	if err != nil || !ok || v == "" {
		return "", false, err
	}
	return v, true, nil
}
