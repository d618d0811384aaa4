// Package strings provides text helpers shared by handlers and repos
package strings

import (
	std "strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString panics with "<name> is required" when s is blank
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a mount path to one leading slash and no trailing slash; panics on root
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// Normalize trims s, collapses inner whitespace runs to one space and returns it in NFC form
// Two titles that render the same compare equal after Normalize
func Normalize(s string) string {
	return norm.NFC.String(std.Join(std.Fields(s), " "))
}

// RuneLen counts characters rather than bytes
func RuneLen(s string) int { return utf8.RuneCountInString(s) }

// SQLNull returns nil for a blank s so the column is stored as NULL
func SQLNull(s string) any {
	if std.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// Deref returns "" if ps is nil, else *ps
func Deref(ps *string) string {
	if ps == nil {
		return ""
	}
	return *ps
}

// Ptr returns a pointer to s, or nil if s is empty
func Ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
