package models

import "strings"

// NormalizePath rewrites any backslash separators to forward slashes so file
// references are usable as URL paths on every platform.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
