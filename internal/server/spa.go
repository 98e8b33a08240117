package server

import (
	"net/http"
	"os"
	"path/filepath"
)

// handleSPA serves the table display from dir, falling back to index.html
// for any path that doesn't match a real file (SPA client-side routing).
// The shell is never cached so a redeploy reaches every classroom screen.
func handleSPA(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() && path != index {
			fileServer.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, index)
	}
}
