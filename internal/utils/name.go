package utils

import (
	"regexp"
	"strings"
)

var (
	// Separators commonly used in downloaded course file names
	separatorChars = regexp.MustCompile(`[_.]+`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// DisplayName turns a file or directory name into a human-readable title.
// Underscores and dots become spaces and runs of whitespace collapse, but
// leading order prefixes like "01-" are kept so lists stay sorted the way
// the course author numbered them.
func DisplayName(name string) string {
	name = separatorChars.ReplaceAllString(name, " ")
	name = multipleSpaces.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
