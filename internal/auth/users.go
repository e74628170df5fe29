package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ziadkadry99/campusmap/internal/source"
)

// User is one entry of the static user file.
type User struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSource yields the current user list.
type UserSource interface {
	Users(ctx context.Context) ([]User, error)
}

// FileUsers reads the user list from a path or http(s) URL on every call.
type FileUsers struct {
	Location string
	Client   *http.Client
}

// Users fetches and decodes the user file.
func (f FileUsers) Users(ctx context.Context) ([]User, error) {
	data, err := source.Read(ctx, f.Client, f.Location)
	if err != nil {
		return nil, err
	}
	return ParseUsers(data)
}

// ParseUsers decodes a JSON array of {email, password} entries.
func ParseUsers(data []byte) ([]User, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var users []User
	if err := dec.Decode(&users); err != nil {
		return nil, fmt.Errorf("parsing user list: %w", err)
	}
	return users, nil
}

// StaticUsers is a fixed user list.
type StaticUsers []User

func (s StaticUsers) Users(context.Context) ([]User, error) { return s, nil }
