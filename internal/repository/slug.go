package repository

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a tenant slug from a display name: lowercase, runs of
// non-alphanumeric characters collapsed to single hyphens, no leading or
// trailing hyphens. "Acme Corp!!" -> "acme-corp".
func Slugify(name string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
