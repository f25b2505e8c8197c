package slug

import (
	"regexp"
	"strings"
)

var invalidRe = regexp.MustCompile(`[^a-z0-9]+`)

// Make converts a title into a URL-safe slug.
func Make(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))
	s = invalidRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
