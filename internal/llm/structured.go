package llm

import (
	"fmt"
	"strings"
)

// ExtractObject returns the first balanced JSON object in a model reply.
// Markdown code fences and C-style comments are dropped, and bare leading
// decimals such as ".5" are rewritten as "0.5".
func ExtractObject(raw string) ([]byte, error) {
	obj := firstObject(stripCodeFences(raw))
	if obj == "" {
		return nil, fmt.Errorf("%w: no JSON object found in reply", ErrInvalidOutput)
	}
	obj = rewriteOutsideStrings(obj, skipComment)
	obj = rewriteOutsideStrings(obj, fixLeadingDecimal)
	return []byte(obj), nil
}

func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "```") {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// firstObject finds the first balanced { ... } block, ignoring braces
// inside string literals.
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		switch c := s[i]; {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// rewriteOutsideStrings copies s, handing every byte outside string
// literals to fn. fn writes its output and returns the index of the last
// byte it consumed.
func rewriteOutsideStrings(s string, fn func(b *strings.Builder, s string, i int) int) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString:
			i = fn(&b, s, i)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func skipComment(b *strings.Builder, s string, i int) int {
	if s[i] == '/' && i+1 < len(s) {
		switch s[i+1] {
		case '/':
			if end := strings.IndexByte(s[i:], '\n'); end >= 0 {
				return i + end - 1
			}
			return len(s) - 1
		case '*':
			if end := strings.Index(s[i+2:], "*/"); end >= 0 {
				return i + 2 + end + 1
			}
			return len(s) - 1
		}
	}
	b.WriteByte(s[i])
	return i
}

func fixLeadingDecimal(b *strings.Builder, s string, i int) int {
	if s[i] == '.' && i+1 < len(s) && isDigit(s[i+1]) && isNumericBoundary(prevNonSpace(s, i-1)) {
		b.WriteByte('0')
	}
	b.WriteByte(s[i])
	return i
}

func prevNonSpace(s string, i int) byte {
	for ; i >= 0; i-- {
		if s[i] != ' ' && s[i] != '\n' && s[i] != '\r' && s[i] != '\t' {
			return s[i]
		}
	}
	return 0
}

func isNumericBoundary(c byte) bool {
	switch c {
	case 0, ':', ',', '[', '{', '-':
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
