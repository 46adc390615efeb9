package filesystem

import "strings"

// ResolvePath converts a file:// URI to a local path.
// Bare paths pass through unchanged.
func ResolvePath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
