package docstring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLevel(t *testing.T) {
	tests := []struct {
		name   string
		source string
		unit   IndentUnit
		want   int
	}{
		{"spec example", "def f(x):\n    return x", Spaces(4), 1},
		{"two units", "def f():\n        pass", Spaces(4), 2},
		{"partial unit dropped", "def f():\n      pass", Spaces(4), 1},
		{"less than one unit", "def f():\n  pass", Spaces(4), 0},
		{"two-space width", "def f():\n  pass", Spaces(2), 1},
		{"tabs", "function f() {\n\t\treturn 1;\n}", Tab(), 2},
		{"tab mode ignores spaces", "def f():\n\t  pass", Tab(), 1},
		{"tab-led line is not a space body line", "def f():\n\t    pass", Spaces(4), 0},
		{"no body line", "def f(): pass", Spaces(4), 0},
		{"empty source", "", Spaces(4), 0},
		{"trailing newline only", "def f():\n", Spaces(4), 0},
		{"skips unindented lines", "@decorator\ndef f():\n    pass", Spaces(4), 1},
		{"first space-led line wins", "a\n\tb\n    c", Spaces(4), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLevel(tt.source, tt.unit))
		})
	}
}

func TestDetectLevel_RemainderNeverRoundsUp(t *testing.T) {
	for k := 0; k < 4; k++ {
		for r := 0; r < 4; r++ {
			source := "def f():\n" + strings.Repeat("    ", k) + strings.Repeat(" ", r) + "x"
			assert.Equal(t, k, DetectLevel(source, Spaces(4)), "k=%d r=%d", k, r)
		}
	}
}

func TestReindent(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		prefix string
		want   string
	}{
		{"no newline", "single", "  ", "single"},
		{"empty prefix", "a\nb", "", "a\nb"},
		{"indents lines", "a\nb\nc", "  ", "a\n  b\n  c"},
		{"skips blank lines", "a\n\nb", "  ", "a\n\n  b"},
		{"trailing newline", "a\n", "\t", "a\n\t"},
		{"leading newline", "\na", "\t", "\n\ta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reindent(tt.text, tt.prefix))
		})
	}
}

func TestIndentUnit(t *testing.T) {
	assert.Equal(t, "    ", Spaces(4).String())
	assert.Equal(t, " ", Spaces(0).String())
	assert.Equal(t, "\t", Tab().String())
	assert.Equal(t, "\t\t", Tab().Repeat(2))
	assert.Equal(t, "", Spaces(2).Repeat(-1))
	assert.True(t, IndentUnitFromEditor(4, false).UsesTabs())
	assert.Equal(t, 2, IndentUnitFromEditor(2, true).Width())
}
