package scanner

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	orderPrefixRx   = regexp.MustCompile(`^[\[\(]?\d+[\]\)]?[\s._-]+`)
	separatorRunsRx = regexp.MustCompile(`[-_]+`)
)

// CleanName turns a raw folder or file name into a display name: the
// leading ordering token ("01 - ", "(2)_", "[03]. ") is stripped and
// dash/underscore runs collapse to single spaces. Idempotent.
func CleanName(raw string) string {
	name := orderPrefixRx.ReplaceAllString(raw, "")
	name = separatorRunsRx.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// CleanVideoName cleans a video file name, dropping the extension first.
func CleanVideoName(raw string) string {
	ext := filepath.Ext(raw)
	return CleanName(strings.TrimSuffix(raw, ext))
}
