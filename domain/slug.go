package domain

import (
	"regexp"
	"strings"

	"github.com/gosimple/slug"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name, collapses every run of characters outside [a-z0-9]
// into a single hyphen and trims hyphens from both ends.
func Slugify(name string) string {
	s := nonSlugRun.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// ResolveSlug returns the user-supplied slug when present, otherwise the one
// derived from name. The boolean is false when the result is not a usable slug.
func ResolveSlug(override, name string) (string, bool) {
	candidate := strings.TrimSpace(override)
	if candidate == "" {
		candidate = Slugify(name)
	}
	return candidate, slug.IsSlug(candidate)
}
