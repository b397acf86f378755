package symbols

import (
	"context"
	"regexp"
	"strings"
)

// Python finds def, async def and class definitions. Blocks end where the
// indentation drops back to the definition's level.
type Python struct{}

var (
	// [ \t]* instead of \s* so the indent never spans lines
	pyDefPattern   = regexp.MustCompile(`^([ \t]*)(?:async[ \t]+)?def[ \t]+(\w+)[ \t]*\(`)
	pyClassPattern = regexp.MustCompile(`^([ \t]*)class[ \t]+(\w+)[ \t]*[(:]`)
	pyStringStart  = regexp.MustCompile(`^[rRuUbBfF]{0,2}("""|'''|"|')`)
)

// Symbols implements DocumentSymbolSource
func (Python) Symbols(ctx context.Context, doc Document) ([]Symbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines := strings.Split(doc.Text, "\n")
	masked, continued := maskPython(doc.Text)
	code := strings.Split(masked, "\n")

	var nodes []*node
	for i, line := range code {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		kind := Function
		m := pyDefPattern.FindStringSubmatch(line)
		if m == nil {
			kind = Class
			if m = pyClassPattern.FindStringSubmatch(line); m == nil {
				continue
			}
		}

		indent := len(m[1])
		headerEnd := pyHeaderEnd(code, i)
		end := pyBlockEnd(code, continued, headerEnd, indent)
		nodes = append(nodes, &node{sym: Symbol{
			Name:          m[2],
			Kind:          kind,
			Range:         Range{StartLine: i, EndLine: end},
			SelectionLine: i,
			Documented:    pyHasDocstring(lines, code, headerEnd, end),
		}})
	}
	return nest(nodes), nil
}

// pyHeaderEnd returns the line holding the colon that closes a definition
// header, following parameter lists across lines.
func pyHeaderEnd(code []string, start int) int {
	depth := 0
	for i := start; i < len(code); i++ {
		for _, c := range code[i] {
			switch c {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
			}
		}
		if depth <= 0 && strings.Contains(code[i], ":") {
			return i
		}
	}
	return start
}

// pyBlockEnd returns the last non-blank line indented deeper than indent.
// Lines that continue a multi-line string never end a block.
func pyBlockEnd(code []string, continued map[int]bool, headerEnd, indent int) int {
	end := headerEnd
	for i := headerEnd + 1; i < len(code); i++ {
		line := strings.TrimRight(code[i], " \t\r")
		if line == "" {
			continue
		}
		if !continued[i] && leadingWhitespace(line) <= indent {
			break
		}
		end = i
	}
	return end
}

// pyHasDocstring reports whether the first body statement is a string literal
func pyHasDocstring(lines, code []string, headerEnd, end int) bool {
	header := code[headerEnd]
	colon := strings.LastIndex(header, ":")
	if rest := strings.TrimSpace(lines[headerEnd][min(colon+1, len(lines[headerEnd])):]); colon >= 0 && rest != "" {
		return pyStringStart.MatchString(rest)
	}
	for i := headerEnd + 1; i <= end && i < len(lines); i++ {
		if strings.TrimSpace(code[i]) == "" {
			continue
		}
		return pyStringStart.MatchString(strings.TrimSpace(lines[i]))
	}
	return false
}

func leadingWhitespace(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// maskPython blanks comments and the contents of string literals with
// spaces, keeping quotes and newlines so offsets and lines are unchanged.
// It also reports the lines that start inside a multi-line string.
func maskPython(text string) (string, map[int]bool) {
	b := []byte(text)
	continued := make(map[int]bool)
	line := 0
	onNewline := func() { line++; continued[line] = true }
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '#':
			for i < len(b) && b[i] != '\n' {
				b[i] = ' '
				i++
			}
		case c == '"' || c == '\'':
			if i+2 < len(b) && b[i+1] == c && b[i+2] == c {
				i = maskUntil(b, i+3, string([]byte{c, c, c}), onNewline)
			} else {
				i = maskUntil(b, i+1, string(c), nil)
			}
		case c == '\n':
			line++
			i++
		default:
			i++
		}
	}
	return string(b), continued
}

// maskUntil blanks b from pos up to the closing delimiter and returns the
// offset after it. A nil onNewline marks a single-line literal, which also
// stops at a newline.
func maskUntil(b []byte, pos int, closing string, onNewline func()) int {
	for pos < len(b) {
		if b[pos] == '\\' && pos+1 < len(b) && b[pos+1] != '\n' {
			b[pos] = ' '
			b[pos+1] = ' '
			pos += 2
			continue
		}
		if strings.HasPrefix(string(b[pos:min(pos+len(closing), len(b))]), closing) {
			return pos + len(closing)
		}
		if b[pos] == '\n' {
			if onNewline == nil {
				return pos
			}
			onNewline()
			pos++
			continue
		}
		b[pos] = ' '
		pos++
	}
	return pos
}
