package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const dashboardAssetPrefix = "/assets/"

// WithDashboard serves the built dashboard client next to the API.
// Requests under /api/ go to the API handler; every other path resolves
// against webDir, falling back to index.html so client-side routes survive
// a reload. Bundle files under assets/ carry content hashes in their names
// and are cached as immutable; index.html and other root files are fetched
// fresh on every load.
func WithDashboard(apiHandler http.Handler, webDir string) http.Handler {
	files := http.FileServer(http.Dir(webDir))
	indexPath := filepath.Join(webDir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			apiHandler.ServeHTTP(w, r)
			return
		}

		rel := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if rel != "" && rel != "." {
			if info, err := os.Stat(filepath.Join(webDir, rel)); err == nil && !info.IsDir() {
				w.Header().Set("Cache-Control", dashboardCacheControl(r.URL.Path))
				files.ServeHTTP(w, r)
				return
			}
		}

		if _, err := os.Stat(indexPath); err != nil {
			http.Error(w, "dashboard build not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		http.ServeFile(w, r, indexPath)
	})
}

func dashboardCacheControl(urlPath string) string {
	if strings.HasPrefix(urlPath, dashboardAssetPrefix) {
		return "public, max-age=31536000, immutable"
	}
	return "no-store"
}
