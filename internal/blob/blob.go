// Package blob stores attachment payloads under account-scoped paths.
package blob

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ErrNotFound is returned when no blob exists at a path.
var ErrNotFound = errors.New("blob not found")

// Object is a stored payload with its content type.
type Object struct {
	Data        []byte
	ContentType string
}

// Store is a path-addressed object store. Upload overwrites whatever is
// already stored at the path.
type Store interface {
	Upload(ctx context.Context, path string, obj Object) error
	Get(ctx context.Context, path string) (Object, error)
	Delete(ctx context.Context, path string) error
	PublicURL(path string) string
}

// ObjectPath joins segments into a clean slash-separated key.
func ObjectPath(segments ...string) string {
	cleaned := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return path.Clean(strings.Join(cleaned, "/"))
}

// SanitizeFileName keeps a file name usable as the last path segment.
func SanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "attachment"
	}
	return out
}

// FreePath returns p when taken reports it unused, otherwise the first of
// p with "-2", "-3", ... inserted before the extension that is unused.
func FreePath(p string, taken func(string) bool) string {
	if !taken(p) {
		return p
	}
	ext := path.Ext(p)
	base := strings.TrimSuffix(p, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d%s", base, n, ext)
		if !taken(candidate) {
			return candidate
		}
	}
}

// publicURL escapes each path segment under baseURL.
func publicURL(baseURL, p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.Join(parts, "/")
}
