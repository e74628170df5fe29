// Package web serves the embedded map and login pages.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"os/exec"
	"runtime"

	"github.com/go-chi/chi/v5"
)

//go:embed assets
var assets embed.FS

func sub() fs.FS {
	f, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return f
}

// RegisterRoutes mounts the pages and their static files.
func RegisterRoutes(r chi.Router) {
	files := sub()
	static := http.FileServer(http.FS(files))

	r.Get("/", page(files, "index.html"))
	r.Get("/index.html", page(files, "index.html"))
	r.Get("/login.html", page(files, "login.html"))
	r.Get("/static/*", static.ServeHTTP)
}

func page(files fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := fs.ReadFile(files, name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(body)
	}
}

// OpenBrowser opens url in the default browser.
func OpenBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
