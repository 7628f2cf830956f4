package common

import (
	"strings"
	"unicode"
)

// UnknownStr is the String() value of out-of-range enum values.
const UnknownStr = "unknown"

// ToSnakeCase converts PascalCase or camelCase to snake_case.
// Acronyms stay together: "HTTPServer" -> "http_server".
func ToSnakeCase(s string) string {
	var sb strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevUpper := unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if !prevUpper || nextLower {
				sb.WriteRune('_')
			}
		}

		sb.WriteRune(unicode.ToLower(r))
	}

	return sb.String()
}
