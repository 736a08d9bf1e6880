package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenAnnotation
	tokenLiteral
	tokenPunct
)

// token is one lexical element of a source file. Comments and whitespace are
// dropped. Annotations are lexed as a single token carrying their qualified
// name and the raw text between their parentheses.
type token struct {
	kind tokenKind
	text string
	args string
	pos  int
}

func (t token) is(punct string) bool {
	return t.kind == tokenPunct && t.text == punct
}

func (t token) isIdent(name string) bool {
	return t.kind == tokenIdent && t.text == name
}

type lexer struct {
	src    string
	pos    int
	tokens []token
}

func lex(src string) []token {
	l := &lexer{src: src}
	l.run()
	return l.tokens
}

func (l *lexer) run() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			l.pos++
		case strings.HasPrefix(l.src[l.pos:], "//"):
			l.skipLineComment()
		case strings.HasPrefix(l.src[l.pos:], "/*"):
			l.skipBlockComment()
		case c == '"' || c == '\'':
			start := l.pos
			l.skipQuoted()
			l.emit(tokenLiteral, l.src[start:l.pos], start)
		case c == '@':
			l.lexAnnotation()
		case isIdentStart(l.peekRune()):
			start := l.pos
			l.skipIdent()
			l.emit(tokenIdent, l.src[start:l.pos], start)
		case c >= '0' && c <= '9':
			start := l.pos
			l.skipNumber()
			l.emit(tokenLiteral, l.src[start:l.pos], start)
		default:
			_, size := utf8.DecodeRuneInString(l.src[l.pos:])
			l.emit(tokenPunct, l.src[l.pos:l.pos+size], l.pos)
			l.pos += size
		}
	}
}

func (l *lexer) emit(kind tokenKind, text string, pos int) {
	l.tokens = append(l.tokens, token{kind: kind, text: text, pos: pos})
}

func (l *lexer) peekRune() rune {
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *lexer) skipLineComment() {
	if i := strings.IndexByte(l.src[l.pos:], '\n'); i >= 0 {
		l.pos += i + 1
		return
	}
	l.pos = len(l.src)
}

func (l *lexer) skipBlockComment() {
	if i := strings.Index(l.src[l.pos+2:], "*/"); i >= 0 {
		l.pos += i + 4
		return
	}
	l.pos = len(l.src)
}

// skipQuoted advances past a string, text block or character literal.
// Unterminated literals run to the end of the line.
func (l *lexer) skipQuoted() {
	if strings.HasPrefix(l.src[l.pos:], `"""`) {
		if i := strings.Index(l.src[l.pos+3:], `"""`); i >= 0 {
			l.pos += i + 6
			return
		}
		l.pos = len(l.src)
		return
	}

	quote := l.src[l.pos]
	l.pos++
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case quote:
			l.pos++
			return
		case '\n':
			return
		}
		l.pos++
	}
	if l.pos > len(l.src) {
		l.pos = len(l.src)
	}
}

func (l *lexer) skipIdent() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentPart(r) {
			return
		}
		l.pos += size
	}
}

func (l *lexer) skipNumber() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '.') {
			return
		}
		l.pos++
	}
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		switch {
		case unicode.IsSpace(l.peekRune()):
			l.pos++
		case strings.HasPrefix(l.src[l.pos:], "//"):
			l.skipLineComment()
		case strings.HasPrefix(l.src[l.pos:], "/*"):
			l.skipBlockComment()
		default:
			return
		}
	}
}

// lexAnnotation reads "@" qualified-name and an optional balanced argument
// list. "@interface" lexes as an annotation named "interface".
func (l *lexer) lexAnnotation() {
	start := l.pos
	l.pos++

	var name strings.Builder
	for {
		l.skipSpaceAndComments()
		if l.pos >= len(l.src) || !isIdentStart(l.peekRune()) {
			break
		}
		identStart := l.pos
		l.skipIdent()
		name.WriteString(l.src[identStart:l.pos])

		save := l.pos
		l.skipSpaceAndComments()
		if l.pos < len(l.src) && l.src[l.pos] == '.' {
			l.pos++
			name.WriteByte('.')
			continue
		}
		l.pos = save
		break
	}

	if name.Len() == 0 {
		l.emit(tokenPunct, "@", start)
		return
	}

	tok := token{kind: tokenAnnotation, text: name.String(), pos: start}

	save := l.pos
	l.skipSpaceAndComments()
	if l.pos < len(l.src) && l.src[l.pos] == '(' && tok.text != "interface" {
		argStart := l.pos + 1
		l.skipBalanced('(', ')')
		argEnd := l.pos - 1
		if argEnd < argStart {
			argEnd = argStart
		}
		tok.args = stripComments(l.src[argStart:argEnd])
	} else {
		l.pos = save
	}

	l.tokens = append(l.tokens, tok)
}

// skipBalanced advances past a bracketed region starting at the opening
// bracket, honoring nested brackets, literals and comments.
func (l *lexer) skipBalanced(open, close byte) {
	depth := 0
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; {
		case c == '"' || c == '\'':
			l.skipQuoted()
			continue
		case strings.HasPrefix(l.src[l.pos:], "//"):
			l.skipLineComment()
			continue
		case strings.HasPrefix(l.src[l.pos:], "/*"):
			l.skipBlockComment()
			continue
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				l.pos++
				return
			}
		}
		l.pos++
	}
}

// stripComments removes comments outside of literals.
func stripComments(s string) string {
	if !strings.Contains(s, "/") {
		return s
	}
	l := &lexer{src: s}
	var b strings.Builder
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; {
		case c == '"' || c == '\'':
			start := l.pos
			l.skipQuoted()
			b.WriteString(l.src[start:l.pos])
		case strings.HasPrefix(l.src[l.pos:], "//"):
			l.skipLineComment()
			b.WriteByte(' ')
		case strings.HasPrefix(l.src[l.pos:], "/*"):
			l.skipBlockComment()
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return b.String()
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
