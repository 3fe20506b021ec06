// Package sanitize cleans user-supplied strings before they are stored on
// notes and events.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxTextPasses bounds the strip-and-decode loop in Text. Input nested deeper
// than this is returned entity-escaped.
const maxTextPasses = 8

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// HTML keeps safe markup and drops scripts, handlers and unsafe URLs. Input
// with no markup and no entities is returned as sent.
func HTML(s string) string {
	trimmed := strings.TrimSpace(s)
	if Text(s) == trimmed {
		return trimmed
	}
	return strings.TrimSpace(ugc.Sanitize(s))
}

// Text strips all markup from a single-line field. Entities are decoded and
// the result stripped again until nothing changes, so encoded tags never come
// back out as live ones.
func Text(s string) string {
	out := s
	for i := 0; i < maxTextPasses; i++ {
		clean := html.UnescapeString(strict.Sanitize(out))
		if clean == out {
			return strings.TrimSpace(out)
		}
		out = clean
	}
	return strings.TrimSpace(strict.Sanitize(out))
}

// Value walks a decoded JSON payload and sanitizes every string in it.
func Value(v any) any {
	switch t := v.(type) {
	case string:
		return HTML(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[Text(k)] = Value(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Value(val)
		}
		return out
	default:
		return v
	}
}
