package validators

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SanitizeString trims free text such as cancellation reasons, drops control
// characters other than newlines and tabs, and caps it at maxLen bytes without
// splitting a multi-byte character. maxLen <= 0 means no cap.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, strings.TrimSpace(input))
	cleaned = strings.TrimSpace(cleaned)

	if maxLen <= 0 || len(cleaned) <= maxLen {
		return cleaned
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
		cut--
	}
	return cleaned[:cut]
}
