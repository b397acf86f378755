// Package editor places formatted docstrings into source text.
package editor

import (
	"os"
	"sort"
	"strings"
)

// InsertionLine returns the 0-based line where a docstring for a function
// starting at symbolLine goes. Python docstrings follow the signature line;
// every other language documents above the definition.
func InsertionLine(languageID string, symbolLine int) int {
	if languageID == "python" {
		return symbolLine + 1
	}
	return symbolLine
}

// Insert returns text with docstring inserted at the start of line.
// A line past the end appends, adding a newline to unterminated text first.
func Insert(text string, line int, docstring string) string {
	if line < 0 {
		line = 0
	}

	offset := 0
	for i := 0; i < line; i++ {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			if text != "" && !strings.HasSuffix(text, "\n") {
				return text + "\n" + docstring
			}
			return text + docstring
		}
		offset += next + 1
	}
	return text[:offset] + docstring + text[offset:]
}

// ApplyToFile inserts docstring at line of the file at path, keeping its
// permissions.
func ApplyToFile(path string, line int, docstring string) error {
	return ApplyAllToFile(path, []Edit{{Line: line, Docstring: docstring}})
}

// Edit is a pending insertion
type Edit struct {
	Line      int
	Docstring string
}

// ApplyAll inserts every edit bottom-up so earlier line numbers stay
// valid. Edits on the same line keep their order.
func ApplyAll(text string, edits []Edit) string {
	order := make([]int, len(edits))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ea, eb := edits[order[a]], edits[order[b]]
		if ea.Line != eb.Line {
			return ea.Line > eb.Line
		}
		return order[a] > order[b]
	})
	for _, i := range order {
		text = Insert(text, edits[i].Line, edits[i].Docstring)
	}
	return text
}

// ApplyAllToFile is ApplyAll on a file, keeping its permissions
func ApplyAllToFile(path string, edits []Edit) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(ApplyAll(string(data), edits)), info.Mode().Perm())
}
