package url

import (
	neturl "net/url"
	"strings"
)

// ParseBangShortcut splits "!key query" into its shortcut key and query.
//
//	"!g golang"     → ("g", "golang", true)
//	"!g"            → ("", "", false)
//	"test !g"       → ("", "", false)
func ParseBangShortcut(input string) (shortcut, query string, found bool) {
	if !strings.HasPrefix(input, "!") {
		return "", "", false
	}

	spaceIdx := strings.Index(input, " ")
	if spaceIdx == -1 || spaceIdx == 1 {
		return "", "", false
	}

	shortcut = input[1:spaceIdx]
	query = strings.TrimSpace(input[spaceIdx+1:])
	if query == "" {
		return "", "", false
	}
	return shortcut, query, true
}

// Resolver turns typed input into a loadable URL.
type Resolver struct {
	// DefaultSearch is a template with one %s, e.g. "https://duckduckgo.com/?q=%s".
	DefaultSearch string
	// Shortcuts maps bang keys to search templates.
	Shortcuts map[string]string
}

// Resolve checks bang shortcuts, then URL-like input, then falls back to the default search.
// Queries are query-escaped before being placed in a template.
func (r Resolver) Resolve(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	if key, query, found := ParseBangShortcut(input); found {
		if template, ok := r.Shortcuts[key]; ok {
			return fill(template, query)
		}
	}

	if LooksLikeURL(input) {
		return Normalize(input)
	}

	if r.DefaultSearch != "" {
		return fill(r.DefaultSearch, input)
	}
	return input
}

func fill(template, query string) string {
	return strings.Replace(template, "%s", neturl.QueryEscape(query), 1)
}
