package docstring

import "strings"

// IndentUnit is one level of indentation: either a run of spaces of a fixed
// width or a single tab.
type IndentUnit struct {
	tabs  bool
	width int
}

// Spaces returns a space-based indent unit of the given width.
// Widths below one are clamped to one.
func Spaces(width int) IndentUnit {
	if width < 1 {
		width = 1
	}
	return IndentUnit{width: width}
}

// Tab returns a tab-based indent unit.
func Tab() IndentUnit {
	return IndentUnit{tabs: true, width: 1}
}

// IndentUnitFromEditor builds the unit from the usual editor options
// (tab size and the insert-spaces preference).
func IndentUnitFromEditor(tabSize int, insertSpaces bool) IndentUnit {
	if insertSpaces {
		return Spaces(tabSize)
	}
	return Tab()
}

// UsesTabs reports whether the unit is a tab.
func (u IndentUnit) UsesTabs() bool {
	return u.tabs
}

// Width is the number of spaces in one unit (1 for tabs).
func (u IndentUnit) Width() int {
	if u.width < 1 {
		return 1
	}
	return u.width
}

func (u IndentUnit) char() byte {
	if u.tabs {
		return '\t'
	}
	return ' '
}

// String returns the literal text of one unit.
func (u IndentUnit) String() string {
	if u.tabs {
		return "\t"
	}
	return strings.Repeat(" ", u.Width())
}

// Repeat returns the unit repeated n times. Negative counts yield "".
func (u IndentUnit) Repeat(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(u.String(), n)
}

// DetectLevel returns how many whole indent units lead the first body line of
// source, i.e. the first line that starts with the unit's character.
// Trailing spaces short of a full unit are dropped. Without such a line the
// level is 0.
func DetectLevel(source string, unit IndentUnit) int {
	ch := unit.char()
	start := -1
	for i := 0; i+1 < len(source); i++ {
		if source[i] == '\n' && source[i+1] == ch {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return 0
	}

	width := unit.Width()
	level, spaces := 0, 0
	for i := start; i < len(source); i++ {
		switch source[i] {
		case '\t':
			level++
		case ' ':
			spaces++
			if !unit.tabs && spaces == width {
				level++
				spaces = 0
			}
		default:
			return level
		}
	}
	return level
}

// Reindent inserts prefix after every line break of text that is not directly
// followed by another line break, so blank lines stay empty.
func Reindent(text, prefix string) string {
	if prefix == "" || !strings.Contains(text, "\n") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + strings.Count(text, "\n")*len(prefix))
	for i := 0; i < len(text); i++ {
		b.WriteByte(text[i])
		if text[i] != '\n' {
			continue
		}
		if i+1 < len(text) && (text[i+1] == '\n' || text[i+1] == '\r') {
			continue
		}
		b.WriteString(prefix)
	}
	return b.String()
}
