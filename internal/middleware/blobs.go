package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ruralpay/cashbook/internal/blob"
)

// BlobServer serves stored attachments by object path. Mount it behind
// http.StripPrefix so the request path is the object path.
func BlobServer(store blob.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimPrefix(r.URL.Path, "/")
		if p == "" || strings.Contains(p, "..") {
			http.NotFound(w, r)
			return
		}

		obj, err := store.Get(r.Context(), blob.ObjectPath(p))
		if errors.Is(err, blob.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			log.Printf("[BLOBS] Failed to read %s: %v", p, err)
			http.Error(w, "blob store unavailable", http.StatusBadGateway)
			return
		}

		if obj.ContentType != "" {
			w.Header().Set("Content-Type", obj.ContentType)
		}
		w.Header().Set("Cache-Control", "public, max-age=2592000")
		w.Write(obj.Data)
	})
}
