package parser

import (
	"strconv"
	"strings"
)

// annotation is a parsed "@Name(key = value, ...)" block. A single unnamed
// argument is stored under the key "value".
type annotation struct {
	name string
	args map[string]string
}

func newAnnotation(t token) annotation {
	return annotation{name: simpleName(t.text), args: parseArgs(t.args)}
}

// simpleName returns the last segment of a qualified annotation name.
func simpleName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

func (a annotation) arg(key string) (string, bool) {
	v, ok := a.args[key]
	return v, ok
}

// boolArg reports the value of a boolean argument and whether it was present
// and well-formed.
func (a annotation) boolArg(key string) (value bool, ok bool) {
	raw, present := a.args[key]
	if !present {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

func (a annotation) intArg(key string) (*int, bool) {
	raw, present := a.args[key]
	if !present {
		return nil, false
	}
	v, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSuffix(raw, "L"), "l"))
	if err != nil {
		return nil, false
	}
	return &v, true
}

// parseArgs splits a raw annotation argument list into key/value pairs.
// String values are unquoted and adjacent concatenations are joined
// ("a" + "b" becomes "ab"). Nested annotations, arrays and expressions are
// kept as trimmed raw text.
func parseArgs(raw string) map[string]string {
	args := make(map[string]string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return args
	}

	for _, part := range splitTopLevel(raw, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value := "value", part
		if i := topLevelIndex(part, '='); i > 0 {
			key = strings.TrimSpace(part[:i])
			value = strings.TrimSpace(part[i+1:])
		}
		args[key] = unquote(value)
	}
	return args
}

// splitTopLevel splits s at sep characters that are not nested inside quotes,
// parentheses, brackets or braces.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\'':
			i = skipLiteral(s, i)
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		default:
			if c == sep && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// topLevelIndex returns the index of the first sep outside quotes, or -1.
func topLevelIndex(s string, sep byte) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\'':
			i = skipLiteral(s, i)
		case sep:
			return i
		}
	}
	return -1
}

// skipLiteral returns the index of the closing quote of the literal that
// starts at i, or the last index of s when unterminated.
func skipLiteral(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(s) - 1
}

func unquote(value string) string {
	if !strings.HasPrefix(value, `"`) {
		return value
	}

	var b strings.Builder
	for _, piece := range splitTopLevel(value, '+') {
		piece = strings.TrimSpace(piece)
		if len(piece) < 2 || piece[0] != '"' || piece[len(piece)-1] != '"' {
			return value
		}
		if s, err := strconv.Unquote(piece); err == nil {
			b.WriteString(s)
		} else {
			b.WriteString(piece[1 : len(piece)-1])
		}
	}
	return b.String()
}
