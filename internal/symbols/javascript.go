package symbols

import (
	"context"
	"regexp"
	"strings"
)

// JavaScript finds functions, arrow functions assigned to variables, classes
// and class methods in JavaScript and TypeScript. Blocks end at the matching
// brace.
type JavaScript struct{}

var (
	jsFunctionPattern = regexp.MustCompile(`^[ \t]*(?:export[ \t]+)?(?:default[ \t]+)?(?:declare[ \t]+)?(?:async[ \t]+)?function\b[ \t]*\*?[ \t]*(\w+)[ \t]*[(<]`)
	jsArrowPattern    = regexp.MustCompile(`^[ \t]*(?:export[ \t]+)?(?:const|let|var)[ \t]+(\w+)[ \t]*(?::[^=]+)?=[ \t]*(?:async[ \t]+)?(?:function\b|(?:\([^)]*\)|\w+)[ \t]*(?::[^=]+)?=>)`)
	jsClassPattern    = regexp.MustCompile(`^[ \t]*(?:export[ \t]+)?(?:default[ \t]+)?(?:abstract[ \t]+)?class[ \t]+(\w+)`)
	jsMethodPattern   = regexp.MustCompile(`^[ \t]*(?:(?:public|private|protected|static|async|readonly|override|abstract|get|set)[ \t]+)*\*?[ \t]*#?(\w+)[ \t]*(?:<[^>]*>)?[ \t]*\(`)
)

var jsKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"function": true, "return": true, "with": true, "do": true, "else": true,
	"new": true, "typeof": true, "await": true, "yield": true, "super": true,
}

// Symbols implements DocumentSymbolSource
func (JavaScript) Symbols(ctx context.Context, doc Document) ([]Symbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines := strings.Split(doc.Text, "\n")
	masked := maskJavaScript(doc.Text)
	code := strings.Split(masked, "\n")
	offsets := lineOffsets(masked)
	depths := braceDepths(code)

	type openClass struct {
		end       int
		bodyDepth int
	}
	var classes []openClass

	var nodes []*node
	for i, line := range code {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for len(classes) > 0 && classes[len(classes)-1].end < i {
			classes = classes[:len(classes)-1]
		}

		var (
			name  string
			kind  Kind
			endAt int
		)
		switch {
		case jsFunctionPattern.MatchString(line):
			m := jsFunctionPattern.FindStringSubmatchIndex(line)
			name, kind = line[m[2]:m[3]], Function
			// start on the ( or < so destructured parameters stay inside the list
			endAt = jsBlockEnd(masked, offsets[i]+m[1]-1)
		case jsArrowPattern.MatchString(line):
			m := jsArrowPattern.FindStringSubmatchIndex(line)
			name, kind = line[m[2]:m[3]], Function
			if strings.HasSuffix(line[:m[1]], "=>") {
				endAt = jsExpressionEnd(masked, offsets[i]+m[1])
			} else {
				endAt = jsBlockEnd(masked, offsets[i]+m[1])
			}
		case jsClassPattern.MatchString(line):
			m := jsClassPattern.FindStringSubmatchIndex(line)
			name, kind = line[m[2]:m[3]], Class
			endAt = jsBlockEnd(masked, offsets[i]+m[1])
			end := lineOf(offsets, endAt)
			classes = append(classes, openClass{end: end, bodyDepth: depths[i] + 1})
		case len(classes) > 0 && depths[i] == classes[len(classes)-1].bodyDepth:
			m := jsMethodPattern.FindStringSubmatchIndex(line)
			if m == nil || jsKeywords[line[m[2]:m[3]]] {
				continue
			}
			name, kind = line[m[2]:m[3]], Method
			endAt = jsBlockEnd(masked, offsets[i]+m[1]-1)
		default:
			continue
		}

		end := lineOf(offsets, endAt)
		if end < i {
			end = i
		}
		nodes = append(nodes, &node{sym: Symbol{
			Name:          name,
			Kind:          kind,
			Range:         Range{StartLine: i, EndLine: end},
			SelectionLine: i,
			Documented:    jsHasDocComment(lines, i),
		}})
	}
	return nest(nodes), nil
}

// braceDepths returns the brace nesting depth at the start of each line
func braceDepths(code []string) []int {
	depths := make([]int, len(code))
	depth := 0
	for i, line := range code {
		depths[i] = depth
		depth += strings.Count(line, "{") - strings.Count(line, "}")
	}
	return depths
}

// jsBlockEnd scans from pos past the parameter list to the body's opening
// brace and returns the offset of the matching closing brace. A semicolon
// before any body ends a bodiless declaration.
func jsBlockEnd(code string, pos int) int {
	depth := 0
	for i := pos; i < len(code); i++ {
		switch code[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '{':
			if depth <= 0 {
				return matchBrace(code, i)
			}
			depth++
		case '}':
			if depth <= 0 {
				return i - 1
			}
			depth--
		case ';':
			if depth <= 0 {
				return i
			}
		}
	}
	return len(code) - 1
}

// jsExpressionEnd finds where an arrow function body that starts at pos
// ends: the matching brace for a block body, otherwise the first semicolon
// or line break outside brackets.
func jsExpressionEnd(code string, pos int) int {
	for pos < len(code) && strings.ContainsRune(" \t\r\n", rune(code[pos])) {
		pos++
	}
	if pos < len(code) && code[pos] == '{' {
		return matchBrace(code, pos)
	}
	depth := 0
	for i := pos; i < len(code); i++ {
		switch code[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				return i - 1
			}
			depth--
		case ';', '\n', ',':
			if depth == 0 {
				return i
			}
		}
	}
	return len(code) - 1
}

func matchBrace(code string, open int) int {
	depth := 0
	for i := open; i < len(code); i++ {
		switch code[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(code) - 1
}

// jsHasDocComment reports whether a /** */ block sits directly above line,
// skipping blank lines and decorators.
func jsHasDocComment(lines []string, line int) bool {
	i := line - 1
	for i >= 0 {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "@") {
			i--
			continue
		}
		break
	}
	if i < 0 || !strings.HasSuffix(strings.TrimSpace(lines[i]), "*/") {
		return false
	}
	for ; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, "/**") {
			return true
		}
		if strings.HasPrefix(trimmed, "/*") {
			return false
		}
	}
	return false
}

// maskJavaScript blanks comments entirely and the contents of string and
// template literals, keeping quotes and newlines.
func maskJavaScript(text string) string {
	b := []byte(text)
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '/' && i+1 < len(b) && b[i+1] == '/':
			for i < len(b) && b[i] != '\n' {
				b[i] = ' '
				i++
			}
		case c == '/' && i+1 < len(b) && b[i+1] == '*':
			end := strings.Index(string(b[i+2:]), "*/")
			stop := len(b)
			if end >= 0 {
				stop = i + 2 + end + 2
			}
			for ; i < stop; i++ {
				if b[i] != '\n' {
					b[i] = ' '
				}
			}
		case c == '`':
			i = maskUntil(b, i+1, "`", func() {})
		case c == '"' || c == '\'':
			i = maskUntil(b, i+1, string(c), nil)
		default:
			i++
		}
	}
	return string(b)
}
