package sanitizer

import "strings"

// CollapseSpaces trims s and replaces every internal whitespace run with one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func NormalizeName(name string) string {
	return CollapseSpaces(name)
}

// NormalizeEmail lowercases the whole address so lookups by email are case insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeDate(date string) string {
	return strings.TrimSpace(date)
}

func NormalizeReason(reason string) string {
	return CollapseSpaces(reason)
}
