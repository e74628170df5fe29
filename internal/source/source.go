// Package source reads the static JSON data files the map is built from.
// A location is either an http(s) URL, a doublestar glob or a plain file path.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultClient is used when a nil client is passed to Read or ReadAll.
var DefaultClient = &http.Client{Timeout: 15 * time.Second}

// maxBody caps how much of a remote data file is read.
const maxBody = 16 << 20

// IsRemote reports whether location is fetched over HTTP.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// IsGlob reports whether location contains glob metacharacters.
func IsGlob(location string) bool {
	return !IsRemote(location) && strings.ContainsAny(location, "*?[{")
}

// Read returns the bytes of a single file or URL.
func Read(ctx context.Context, client *http.Client, location string) ([]byte, error) {
	if location == "" {
		return nil, fmt.Errorf("empty data location")
	}
	if IsRemote(location) {
		return fetch(ctx, client, location)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", location, err)
	}
	return data, nil
}

// ReadAll resolves location to one or more documents. Globs expand to every
// matching file in lexical path order; anything else yields one document.
func ReadAll(ctx context.Context, client *http.Client, location string) ([][]byte, error) {
	if !IsGlob(location) {
		data, err := Read(ctx, client, location)
		if err != nil {
			return nil, err
		}
		return [][]byte{data}, nil
	}

	matches, err := doublestar.FilepathGlob(location)
	if err != nil {
		return nil, fmt.Errorf("expanding %s: %w", location, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %s", location)
	}
	sort.Strings(matches)

	docs := make([][]byte, 0, len(matches))
	for _, m := range matches {
		data, err := os.ReadFile(filepath.Clean(m))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", m, err)
		}
		docs = append(docs, data)
	}
	return docs, nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}
