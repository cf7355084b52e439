package internals

import "strings"

const (
	ColorRed    = "\033[1;31m"
	ColorYellow = "\033[1;33m"
	ColorCyan   = "\033[1;36m"
	colorReset  = "\033[0m"
)

// Paint wraps text in an ANSI color when enabled
func Paint(text, color string, enabled bool) string {
	if !enabled || text == "" {
		return text
	}
	return color + text + colorReset
}

// Balanced reports whether every '{' and '(' opened in src is closed again,
// quoted text and # comments are skipped. The repl uses it to ask for more lines.
func Balanced(src string) bool {
	depth := 0
	inString := false
	inComment := false
	for idx := 0; idx < len(src); idx++ {
		char := src[idx]
		switch {
		case inComment:
			if char == '\n' {
				inComment = false
			}
		case inString:
			if char == '\\' {
				idx++
			} else if char == '"' || char == '\n' {
				inString = false
			}
		case char == '"':
			inString = true
		case char == '#':
			inComment = true
		case strings.IndexByte("{(", char) >= 0:
			depth++
		case strings.IndexByte("})", char) >= 0:
			depth--
		}
	}
	return depth <= 0
}
