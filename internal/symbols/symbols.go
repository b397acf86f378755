// Package symbols finds function definitions in source documents.
//
// Sources are regex and scanner based: they need no language server and no
// cgo, and they report the same shape an editor's document-symbol provider
// would (name, kind, full range, selection line, children).
package symbols

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/NikitaCOEUR/doxide/internal/derrors"
)

// Kind is the type of a symbol
type Kind int

// Symbol kinds
const (
	Function Kind = iota + 1
	Method
	Class
)

var kindNames = map[Kind]string{
	Function: "function",
	Method:   "method",
	Class:    "class",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Range is a span of lines, 0-based, EndLine inclusive
type Range struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

// Contains reports whether line falls inside the range
func (r Range) Contains(line int) bool {
	return line >= r.StartLine && line <= r.EndLine
}

// Symbol is a definition found in a document
type Symbol struct {
	Name          string   `json:"name"`
	Kind          Kind     `json:"kind"`
	Range         Range    `json:"range"`
	SelectionLine int      `json:"selectionLine"`
	Children      []Symbol `json:"children,omitempty"`
	// Documented is set when the definition already carries a docstring
	Documented bool `json:"documented"`
}

// IsFunction reports whether the symbol can receive a docstring
func (s Symbol) IsFunction() bool {
	return s.Kind == Function || s.Kind == Method
}

// Document is a source file held in memory
type Document struct {
	Path       string
	LanguageID string
	Text       string
}

// Load reads a file and detects its language
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return Document{Path: path, LanguageID: DetectLanguage(path), Text: string(data)}, nil
}

// Lines splits the document text on newlines
func (d Document) Lines() []string {
	return strings.Split(d.Text, "\n")
}

// TextIn returns the text covered by r, lines joined with "\n".
// Out-of-range bounds are clamped.
func (d Document) TextIn(r Range) string {
	lines := d.Lines()
	start, end := r.StartLine, r.EndLine
	if start < 0 {
		start = 0
	}
	if end >= len(lines) {
		end = len(lines) - 1
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start:end+1], "\n")
}

// DocumentSymbolSource supplies the symbols of a document
type DocumentSymbolSource interface {
	Symbols(ctx context.Context, doc Document) ([]Symbol, error)
}

var extensionLanguages = map[string]string{
	".py":  "python",
	".pyi": "python",
	".js":  "javascript",
	".mjs": "javascript",
	".cjs": "javascript",
	".jsx": "javascript",
	".ts":  "typescript",
	".tsx": "typescript",
}

// DetectLanguage maps a file extension to a language id, or "" if unknown
func DetectLanguage(path string) string {
	return extensionLanguages[strings.ToLower(filepath.Ext(path))]
}

// Registry maps language ids to symbol sources
type Registry struct {
	sources map[string]DocumentSymbolSource
}

// NewRegistry returns a registry with the built-in sources
func NewRegistry() *Registry {
	r := &Registry{sources: make(map[string]DocumentSymbolSource)}
	r.Register("python", Python{})
	r.Register("javascript", JavaScript{})
	r.Register("typescript", JavaScript{})
	return r
}

// Register sets the source for a language id
func (r *Registry) Register(languageID string, source DocumentSymbolSource) {
	r.sources[languageID] = source
}

// Source returns the source for a language id
func (r *Registry) Source(languageID string) (DocumentSymbolSource, bool) {
	s, ok := r.sources[languageID]
	return s, ok
}

// Languages returns the registered language ids, sorted
func (r *Registry) Languages() []string {
	ids := make([]string, 0, len(r.sources))
	for id := range r.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Symbols dispatches to the source registered for the document's language
func (r *Registry) Symbols(ctx context.Context, doc Document) ([]Symbol, error) {
	source, ok := r.Source(doc.LanguageID)
	if !ok {
		lang := doc.LanguageID
		if lang == "" {
			lang = "unknown"
		}
		return nil, derrors.NewNotFoundError("language", fmt.Sprintf("no symbol source for language %q (%s)", lang, doc.Path))
	}
	return source.Symbols(ctx, doc)
}

// Flatten walks symbols and their children in document order, keeping only
// the given kinds (all kinds when none are given).
func Flatten(symbols []Symbol, kinds ...Kind) []Symbol {
	var out []Symbol
	var walk func([]Symbol)
	walk = func(list []Symbol) {
		for _, s := range list {
			if len(kinds) == 0 || containsKind(kinds, s.Kind) {
				out = append(out, s)
			}
			walk(s.Children)
		}
	}
	walk(symbols)
	return out
}

func containsKind(kinds []Kind, k Kind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// FunctionAt returns the innermost function or method whose range
// contains line.
func FunctionAt(symbols []Symbol, line int) (Symbol, bool) {
	var found Symbol
	ok := false
	for _, s := range Flatten(symbols, Function, Method) {
		if !s.Range.Contains(line) {
			continue
		}
		if !ok || s.Range.StartLine >= found.Range.StartLine {
			found, ok = s, true
		}
	}
	return found, ok
}

// node is the mutable tree used while nesting symbols
type node struct {
	sym      Symbol
	children []*node
}

// nest builds the symbol tree from definitions sorted by start line. A
// definition is a child of the closest open definition whose range covers it.
func nest(nodes []*node) []Symbol {
	var roots []*node
	var stack []*node
	for _, n := range nodes {
		for len(stack) > 0 && stack[len(stack)-1].sym.Range.EndLine < n.sym.Range.StartLine {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			if parent.sym.Kind == Class && n.sym.Kind == Function {
				n.sym.Kind = Method
			}
			parent.children = append(parent.children, n)
		} else {
			roots = append(roots, n)
		}
		stack = append(stack, n)
	}
	return freeze(roots)
}

func freeze(nodes []*node) []Symbol {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Symbol, len(nodes))
	for i, n := range nodes {
		out[i] = n.sym
		out[i].Children = freeze(n.children)
	}
	return out
}

// lineOffsets returns the byte offset where each line starts
func lineOffsets(text string) []int {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// lineOf maps a byte offset to its 0-based line
func lineOf(offsets []int, pos int) int {
	return sort.Search(len(offsets), func(i int) bool { return offsets[i] > pos }) - 1
}

// checkEvery is how many lines a source scans between context checks
const checkEvery = 256
