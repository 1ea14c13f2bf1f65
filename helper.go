// File: lixenwraith/tomlcfg/helper.go
package tomlcfg

import (
	"strings"
	"unicode"
)

// isValidKeySegment checks if a single name is a valid TOML bare key.
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}
	// TOML bare keys are sequences of ASCII letters, ASCII digits, underscores, and dashes (A-Za-z0-9_-).
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isUnderscore := r == '_'
		isDash := r == '-'

		if !(isLetter || isDigit || isUnderscore || isDash) {
			return false
		}
	}
	return true
}

// splitWords breaks snake_case, kebab-case and CamelCase names into lower-case words.
func splitWords(s string) []string {
	var words []string
	var cur []rune
	runes := []rune(s)

	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r):
			// Start a new word on lower->Upper and on the last upper of an acronym ("HTTPServer")
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				flush()
			}
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()

	return words
}

// toCamel converts a field key into an exported Go identifier ("buffer_size" -> "BufferSize").
func toCamel(s string) string {
	var b strings.Builder
	for _, w := range splitWords(s) {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	out := b.String()
	if out == "" || unicode.IsDigit([]rune(out)[0]) {
		out = "X" + out
	}
	return out
}

// toSnake converts a Go identifier into a TOML key ("BufferSize" -> "buffer_size").
func toSnake(s string) string {
	return strings.Join(splitWords(s), "_")
}

// toShoutySnake converts a type name into the resolved value name ("Config" -> "CONFIG").
func toShoutySnake(s string) string {
	return strings.ToUpper(strings.Join(splitWords(s), "_"))
}
