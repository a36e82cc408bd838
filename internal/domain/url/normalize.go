// Package url resolves what the user typed into something a surface can load.
package url

import "strings"

// passthroughSchemes are loaded as typed.
var passthroughSchemes = []string{
	"http://",
	"https://",
	"file://",
	"about:",
	"data:",
}

func hasKnownScheme(input string) bool {
	for _, scheme := range passthroughSchemes {
		if strings.HasPrefix(input, scheme) {
			return true
		}
	}
	return false
}

// Normalize adds an https:// prefix to scheme-less URL-like input.
// Anything else is returned unchanged.
func Normalize(input string) string {
	input = strings.TrimSpace(input)
	if input == "" || hasKnownScheme(input) {
		return input
	}
	if LooksLikeURL(input) {
		return "https://" + input
	}
	return input
}

// LooksLikeURL reports whether the input is a URL rather than a search query.
func LooksLikeURL(input string) bool {
	if input == "" {
		return false
	}
	if hasKnownScheme(input) {
		return true
	}
	if strings.HasPrefix(input, "localhost") {
		return !strings.Contains(input, " ")
	}
	return strings.Contains(input, ".") && !strings.Contains(input, " ")
}
