// Package cleaner strips markup from hh.ru API payloads. Search snippets
// arrive with <highlighttext> wrappers around matched terms and the odd
// entity-encoded fragment; downstream keyword matching wants plain text.
package cleaner

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Cleaner sanitizes vacancy payloads with a strict bluemonday policy.
type Cleaner struct {
	policy *bluemonday.Policy
}

// New creates a cleaner that strips all HTML, leaving text content only.
func New() *Cleaner {
	return &Cleaner{policy: bluemonday.StrictPolicy()}
}

// Clean removes markup from a single value and unescapes HTML entities.
func (c *Cleaner) Clean(s string) string {
	text := c.policy.Sanitize(s)
	text = html.UnescapeString(text)
	return strings.TrimSpace(text)
}

// CleanMap sanitizes every string value in a vacancy payload, recursing
// into nested objects. Snippets, names and descriptions all pass through
// here before analysis. The input map is left untouched.
func (c *Cleaner) CleanMap(data map[string]any) map[string]any {
	result := make(map[string]any, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case string:
			result[k] = c.Clean(val)
		case map[string]any:
			result[k] = c.CleanMap(val)
		case []any:
			result[k] = c.cleanSlice(val)
		default:
			result[k] = v
		}
	}
	return result
}

func (c *Cleaner) cleanSlice(items []any) []any {
	result := make([]any, len(items))
	for i, v := range items {
		switch val := v.(type) {
		case string:
			result[i] = c.Clean(val)
		case map[string]any:
			result[i] = c.CleanMap(val)
		default:
			result[i] = v
		}
	}
	return result
}
