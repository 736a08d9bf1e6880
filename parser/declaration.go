package parser

import "strings"

var modifiers = map[string]bool{
	"public":       true,
	"protected":    true,
	"private":      true,
	"static":       true,
	"final":        true,
	"transient":    true,
	"volatile":     true,
	"abstract":     true,
	"synchronized": true,
	"native":       true,
	"strictfp":     true,
	"default":      true,
}

var visibilities = map[string]bool{
	"public":    true,
	"protected": true,
	"private":   true,
}

// classDecl is the first top-level class declaration of a source file.
type classDecl struct {
	name        string
	annotations []annotation
	// body is the index of the first token after the opening brace.
	body int
}

// findClass locates the first top-level "class <Identifier>" declaration and
// the annotations written before it. Annotations before package and import
// statements are discarded.
func findClass(tokens []token) (classDecl, bool) {
	var pending []annotation
	depth := 0
	for i, t := range tokens {
		switch {
		case t.is("{"):
			depth++
		case t.is("}"):
			depth--
		case depth != 0:
		case t.is(";"):
			pending = nil
		case t.kind == tokenAnnotation:
			pending = append(pending, newAnnotation(t))
		case t.isIdent("class"):
			if i > 0 && tokens[i-1].is(".") {
				continue
			}
			if i+1 >= len(tokens) || tokens[i+1].kind != tokenIdent {
				continue
			}
			decl := classDecl{name: tokens[i+1].text, annotations: pending, body: len(tokens)}
			for j := i + 2; j < len(tokens); j++ {
				if tokens[j].is("{") {
					decl.body = j + 1
					break
				}
			}
			return decl, true
		}
	}
	return classDecl{}, false
}

// matchBrace returns the index of the brace closing the one at open, or the
// last index when the braces are unbalanced.
func matchBrace(tokens []token, open int) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch {
		case tokens[i].is("{"):
			depth++
		case tokens[i].is("}"):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(tokens) - 1
}

// member is one statement of a class body with the annotations written
// before it.
type member struct {
	tokens      []token
	annotations []annotation
}

// members splits a class body into statements terminated by ";". Blocks that
// are not part of an initializer (methods, constructors, initializer blocks,
// nested types) are skipped together with their preceding annotations.
func members(tokens []token, start int) []member {
	var (
		result []member
		cur    member
	)
	for i := start; i < len(tokens); {
		t := tokens[i]
		switch {
		case t.kind == tokenAnnotation:
			cur.annotations = append(cur.annotations, newAnnotation(t))
			i++
		case t.is("{"):
			end := matchBrace(tokens, i)
			if hasInitializer(cur.tokens) {
				cur.tokens = append(cur.tokens, token{kind: tokenLiteral, text: "{}", pos: t.pos})
			} else {
				cur = member{}
			}
			i = end + 1
		case t.is("}"):
			return result
		case t.is(";"):
			if len(cur.tokens) > 0 {
				result = append(result, cur)
			}
			cur = member{}
			i++
		default:
			cur.tokens = append(cur.tokens, t)
			i++
		}
	}
	return result
}

func hasInitializer(tokens []token) bool {
	for _, t := range tokens {
		if t.is("=") {
			return true
		}
	}
	return false
}

// fieldDecl is a parsed field declaration statement.
type fieldDecl struct {
	modifiers   map[string]bool
	sourceType  string
	declarators []declarator
}

type declarator struct {
	name string
	// dims holds C-style array brackets written after the name.
	dims string
}

func (d declarator) sourceType(base string) string {
	return base + d.dims
}

// parseField parses "modifiers Type name [= init] {, name [= init]}". It
// reports false for anything that is not a field declaration with a
// visibility qualifier.
func parseField(tokens []token) (fieldDecl, bool) {
	decl := fieldDecl{modifiers: make(map[string]bool)}

	i := 0
	for i < len(tokens) && tokens[i].kind == tokenIdent && modifiers[tokens[i].text] {
		decl.modifiers[tokens[i].text] = true
		i++
	}

	visible := false
	for v := range visibilities {
		if decl.modifiers[v] {
			visible = true
		}
	}
	if !visible {
		return fieldDecl{}, false
	}

	sourceType, i, ok := parseType(tokens, i)
	if !ok {
		return fieldDecl{}, false
	}
	decl.sourceType = sourceType

	for {
		if i >= len(tokens) || tokens[i].kind != tokenIdent {
			return fieldDecl{}, false
		}
		d := declarator{name: tokens[i].text}
		i++
		for i+1 < len(tokens) && tokens[i].is("[") && tokens[i+1].is("]") {
			d.dims += "[]"
			i += 2
		}
		decl.declarators = append(decl.declarators, d)

		if i < len(tokens) && tokens[i].is("=") {
			i = skipInitializer(tokens, i+1)
		}
		if i >= len(tokens) {
			return decl, true
		}
		if !tokens[i].is(",") {
			return fieldDecl{}, false
		}
		i++
	}
}

// parseType reads a possibly qualified, generic, array type starting at i.
func parseType(tokens []token, i int) (string, int, bool) {
	var b strings.Builder

	if i >= len(tokens) || tokens[i].kind != tokenIdent {
		return "", i, false
	}
	b.WriteString(tokens[i].text)
	i++
	for i+1 < len(tokens) && tokens[i].is(".") && tokens[i+1].kind == tokenIdent {
		b.WriteString(".")
		b.WriteString(tokens[i+1].text)
		i += 2
	}

	if i < len(tokens) && tokens[i].is("<") {
		depth := 0
		for ; i < len(tokens); i++ {
			t := tokens[i]
			switch {
			case t.is("<"):
				depth++
			case t.is(">"):
				depth--
			case t.kind == tokenAnnotation:
				continue
			}
			b.WriteString(t.text)
			if t.is(",") {
				b.WriteString(" ")
			}
			if depth == 0 {
				i++
				break
			}
		}
		if depth != 0 {
			return "", i, false
		}
	}

	for i+1 < len(tokens) && tokens[i].is("[") && tokens[i+1].is("]") {
		b.WriteString("[]")
		i += 2
	}
	return b.String(), i, true
}

// skipInitializer advances past an initializer expression to the next
// top-level comma or the end of the statement.
func skipInitializer(tokens []token, i int) int {
	depth := 0
	for ; i < len(tokens); i++ {
		t := tokens[i]
		switch {
		case t.is("(") || t.is("["):
			depth++
		case t.is(")") || t.is("]"):
			depth--
		case t.is("<") && i > 0 && tokens[i-1].kind == tokenIdent:
			if end, ok := typeArgumentsEnd(tokens, i); ok {
				i = end
			}
		case t.is(",") && depth == 0:
			return i
		}
	}
	return i
}

// typeArgumentsEnd reports the index of the '>' closing the type argument
// list opened at i. The list may only hold type names, wildcards, bounds and
// array brackets; anything else means the '<' is a comparison.
func typeArgumentsEnd(tokens []token, i int) (int, bool) {
	angle := 0
	for ; i < len(tokens); i++ {
		t := tokens[i]
		switch {
		case t.is("<"):
			angle++
		case t.is(">"):
			angle--
			if angle == 0 {
				return i, true
			}
		case t.kind == tokenIdent,
			t.is("."), t.is(","), t.is("?"), t.is("&"), t.is("["), t.is("]"):
		default:
			return 0, false
		}
	}
	return 0, false
}
