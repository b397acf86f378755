package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertionLine(t *testing.T) {
	assert.Equal(t, 4, InsertionLine("python", 3))
	assert.Equal(t, 3, InsertionLine("javascript", 3))
	assert.Equal(t, 3, InsertionLine("typescript", 3))
	assert.Equal(t, 0, InsertionLine("", 0))
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
		want string
	}{
		{"first line", "a\nb\n", 0, "X\na\nb\n"},
		{"middle", "a\nb\n", 1, "a\nX\nb\n"},
		{"after last newline", "a\nb\n", 2, "a\nb\nX\n"},
		{"past end", "a\nb\n", 9, "a\nb\nX\n"},
		{"past end unterminated", "a\nb", 5, "a\nb\nX\n"},
		{"empty text", "", 3, "X\n"},
		{"negative line", "a\n", -2, "X\na\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Insert(tt.text, tt.line, "X\n"))
		})
	}
}

func TestInsert_PythonDocstring(t *testing.T) {
	src := "def add_one(x):\n    return x + 1\n"
	doc := "    '''\n    Adds one.\n    '''\n"

	got := Insert(src, InsertionLine("python", 0), doc)
	assert.Equal(t, "def add_one(x):\n    '''\n    Adds one.\n    '''\n    return x + 1\n", got)
}

func TestApplyAll(t *testing.T) {
	src := "l0\nl1\nl2\n"
	got := ApplyAll(src, []Edit{
		{Line: 1, Docstring: "A\n"},
		{Line: 3, Docstring: "B\n"},
		{Line: 1, Docstring: "C\n"},
	})
	assert.Equal(t, "l0\nA\nC\nl1\nl2\nB\n", got)
}

func TestApplyToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.py")
	require.NoError(t, os.WriteFile(path, []byte("def f():\n    pass\n"), 0o640))

	require.NoError(t, ApplyToFile(path, 1, "    '''Doc.'''\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "def f():\n    '''Doc.'''\n    pass\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestApplyToFile_Missing(t *testing.T) {
	err := ApplyToFile(filepath.Join(t.TempDir(), "missing.py"), 0, "x")
	assert.Error(t, err)
}
