package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := Read(context.Background(), nil, path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("data = %q, want []", data)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(context.Background(), nil, filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[{"email":"a"}]`))
	}))
	defer srv.Close()

	data, err := Read(context.Background(), srv.Client(), srv.URL+"/users.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != `[{"email":"a"}]` {
		t.Errorf("data = %q", data)
	}

	if _, err := Read(context.Background(), srv.Client(), srv.URL+"/missing.json"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestReadAllGlob(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"b.json":        `["b"]`,
		"a.json":        `["a"]`,
		"nested/c.json": `["c"]`,
		"notes.txt":     `ignored`,
	} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := ReadAll(context.Background(), nil, filepath.Join(dir, "**", "*.json"))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	if string(docs[0]) != `["a"]` || string(docs[1]) != `["b"]` || string(docs[2]) != `["c"]` {
		t.Errorf("unexpected order: %q %q %q", docs[0], docs[1], docs[2])
	}
}

func TestReadAllGlobNoMatch(t *testing.T) {
	if _, err := ReadAll(context.Background(), nil, filepath.Join(t.TempDir(), "*.json")); err == nil {
		t.Error("expected error when glob matches nothing")
	}
}

func TestIsGlob(t *testing.T) {
	tests := map[string]bool{
		"data/ModyData.json":        false,
		"data/*.json":               true,
		"data/**/*.json":            true,
		"https://example.com/a?b=1": false,
		"data/{north,south}.json":   true,
	}
	for in, want := range tests {
		if got := IsGlob(in); got != want {
			t.Errorf("IsGlob(%q) = %v, want %v", in, got, want)
		}
	}
}
