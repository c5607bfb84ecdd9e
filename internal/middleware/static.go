package middleware

import (
	"net/http"
	"os"
	"path/filepath"
)

// StaticFileServer serves the groundcontrol single-page client. Requests
// for files that exist under dir are served as-is; anything else falls
// back to the client entry point so the app loads on any path.
func StaticFileServer(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean(r.URL.Path))

		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			http.ServeFile(w, r, path)
			return
		}

		http.ServeFile(w, r, filepath.Join(dir, "groundcontrol.html"))
	})
}
