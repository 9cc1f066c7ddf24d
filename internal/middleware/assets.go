package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// AssetsWithCache serves static files from dir with long-lived caching and
// strong ETag revalidation. ETags are computed once at startup; the asset set
// is fixed for the life of the process.
func AssetsWithCache(dir string) http.Handler {
	etags := make(map[string]string)
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		if et := fileETag(path); et != "" {
			etags["/"+filepath.ToSlash(rel)] = et
		}
		return nil
	})

	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The router strips the mount prefix, so URL paths key the map directly.
		w.Header().Set("Vary", "Accept-Encoding")
		w.Header().Set("Cache-Control", "public, max-age=86400, stale-while-revalidate=3600")
		if et := etags[r.URL.Path]; et != "" {
			w.Header().Set("ETag", et)
			if match := r.Header.Get("If-None-Match"); match != "" && strings.Contains(match, et) {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}

func fileETag(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
