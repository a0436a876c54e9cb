package static

import (
	"path/filepath"
	"strings"
)

// DefaultContentType is served for extensions missing from the table.
const DefaultContentType = "application/octet-stream"

var mimeTypes = map[string]string{
	"html": "text/html",
	"txt":  "text/plain",
	"css":  "text/css",
	"js":   "application/javascript",
	"ico":  "image/x-icon",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

// ContentType returns the content type for name based on its extension.
// Matching is case-insensitive.
func ContentType(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if t, ok := mimeTypes[strings.ToLower(ext)]; ok {
		return t
	}
	return DefaultContentType
}

// IsText reports whether content of type contentType is loaded and served
// as UTF-8 text rather than raw bytes.
func IsText(contentType string) bool {
	return strings.HasPrefix(contentType, "text/") || contentType == "application/javascript"
}
