package core

import "strings"

// ParseActive maps the loosely-typed `active` query parameter to a filter value:
// "true" and "false" restrict by the active flag; anything else (absent, "null", garbage) means no restriction.
func ParseActive(s string) *bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		b := true
		return &b
	case "false":
		b := false
		return &b
	default:
		return nil
	}
}

// ParseFlag reports whether a boolean query flag (e.g. populate_subjects) is set.
func ParseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// EscapeLike escapes LIKE wildcards in `s` so it is matched literally (ESCAPE '\').
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
