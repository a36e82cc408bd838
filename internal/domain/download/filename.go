// Package download holds the pure rules behind download naming and metrics.
package download

import (
	"fmt"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
)

// DefaultFilename is used when no usable name can be derived.
const DefaultFilename = "download"

// maxUniqueAttempts bounds the _(N) suffix search in UniqueFilename.
const maxUniqueAttempts = 1000

// SanitizeFilename keeps only the base name of a suggested filename so a
// hostile Content-Disposition cannot escape the download directory.
func SanitizeFilename(name string) string {
	// filepath.Base only splits on the OS separator; fold backslashes first.
	name = strings.ReplaceAll(name, "\\", "/")
	clean := filepath.Base(strings.TrimSpace(name))

	switch clean {
	case ".", "..", "", "/":
		return DefaultFilename
	}
	return clean
}

// canonicalExtensions pins extensions whose stdlib lookup order is platform dependent.
var canonicalExtensions = map[string]string{
	"text/html":                ".html",
	"text/plain":               ".txt",
	"image/jpeg":               ".jpg",
	"image/svg+xml":            ".svg",
	"audio/mpeg":               ".mp3",
	"video/mp4":                ".mp4",
	"application/octet-stream": ".bin",
}

// ExtensionForMimeType returns an extension for a MIME type, parameters allowed.
// Returns "" when nothing is known.
func ExtensionForMimeType(mimeType string) string {
	if mimeType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil || mediaType == "" {
		return ""
	}
	if ext, ok := canonicalExtensions[mediaType]; ok {
		return ext
	}
	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}

// ResolveFilename picks the best filename for a download: the suggested
// name first, then the last segment of the source URL. The result is
// sanitized and gets an extension from mimeType when it has none.
func ResolveFilename(suggested, sourceURL, mimeType string) string {
	name := suggested
	if strings.TrimSpace(name) == "" {
		name = filenameFromURL(sourceURL)
	}

	clean := SanitizeFilename(name)
	if filepath.Ext(clean) == "" {
		if ext := ExtensionForMimeType(mimeType); ext != "" {
			clean += ext
		}
	}
	return clean
}

func filenameFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	path := raw
	if parsed, err := url.Parse(raw); err == nil {
		path = parsed.Path
	}
	return filepath.Base(path)
}

// UniqueFilename appends _(N) before the extension until exists reports a free path in dir.
func UniqueFilename(dir, filename string, exists func(path string) bool) string {
	if !exists(filepath.Join(dir, filename)) {
		return filename
	}

	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	for i := 1; i < maxUniqueAttempts; i++ {
		candidate := fmt.Sprintf("%s_(%d)%s", base, i, ext)
		if !exists(filepath.Join(dir, candidate)) {
			return candidate
		}
	}
	return fmt.Sprintf("%s_(%d)%s", base, maxUniqueAttempts, ext)
}
