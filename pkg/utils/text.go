package utils

import "unicode/utf8"

// Truncate returns s truncated to at most maxLen bytes, with "..." appended if
// truncated. The cut is moved back to a rune boundary so multi-byte text stays
// valid UTF-8. If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
