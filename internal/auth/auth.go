// Package auth is the login gate in front of the map page. It validates the
// institutional email shape, checks credentials against the static user list
// and records the result in the tab session.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ziadkadry99/campusmap/internal/logging"
)

// Navigation targets returned to the browser.
const (
	MapPage   = "index.html"
	LoginPage = "login.html"
)

var (
	ErrInvalidEmailFormat  = errors.New("invalid email format")
	ErrUserDataUnavailable = errors.New("user data unavailable")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

var emailPattern = regexp.MustCompile(`(?i)^[a-zA-Z0-9]+\.[a-zA-Z0-9]+@modyuniversity\.ac\.in$`)

// ValidEmail reports whether email, once trimmed, has the name.department shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// SessionWriter is the part of a tab session the gate writes to.
type SessionWriter interface {
	Login(ctx context.Context, email string) error
}

// Gate checks credentials against a UserSource.
type Gate struct {
	users UserSource
	log   *logging.Logger
}

// NewGate creates a Gate. A nil logger logs to the default.
func NewGate(users UserSource, log *logging.Logger) *Gate {
	return &Gate{users: users, log: logging.Or(log)}
}

// Authenticate returns the stored email of the matching user. The email
// matches case-insensitively, the password exactly.
func (g *Gate) Authenticate(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmailFormat
	}

	users, err := g.users.Users(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUserDataUnavailable, err)
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) && passwordMatches(u.Password, password) {
			return u.Email, nil
		}
	}
	return "", ErrInvalidCredentials
}

// Login authenticates and, on success, marks the tab logged in. It returns
// the page the browser should navigate to.
func (g *Gate) Login(ctx context.Context, tab SessionWriter, email, password string) (string, error) {
	matched, err := g.Authenticate(ctx, email, password)
	if err != nil {
		g.log.WithContext(ctx).AuthEvent("login", strings.TrimSpace(email), false, err.Error())
		return "", err
	}
	if err := tab.Login(ctx, matched); err != nil {
		return "", fmt.Errorf("recording login: %w", err)
	}
	g.log.WithContext(ctx).AuthEvent("login", matched, true, "")
	return MapPage, nil
}

// UserMessage is the text shown on the login page for a Login error.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidEmailFormat):
		return "Invalid email. Must be: name.department@modyuniversity.ac.in"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password."
	default:
		return "Login service is unavailable. Please try again later."
	}
}

// IsHash reports whether a stored password is a bcrypt hash.
func IsHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// HashPassword returns a bcrypt hash suitable for the user file.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(h), nil
}

func passwordMatches(stored, given string) bool {
	if IsHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
