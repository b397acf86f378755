// Package cache persists the alternative docstrings of the last generation
// for each function, so they can be cycled and accepted later.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/NikitaCOEUR/doxide/internal/derrors"
)

// Entry holds the pending alternatives for one function
type Entry struct {
	Path       string `json:"path"`
	Line       int    `json:"line"`
	LanguageID string `json:"language_id"`
	// InsertLine is where the accepted docstring goes
	InsertLine   int       `json:"insert_line"`
	Alternatives []string  `json:"alternatives"`
	Index        int       `json:"index"`
	Hash         string    `json:"hash"`
	Timestamp    time.Time `json:"timestamp"`
	Version      string    `json:"version"`
}

// Key returns the cache key of the entry
func (e *Entry) Key() string {
	return Key(e.Path, e.Line)
}

// Current returns the alternative currently shown
func (e *Entry) Current() string {
	if len(e.Alternatives) == 0 {
		return ""
	}
	if e.Index < 0 || e.Index >= len(e.Alternatives) {
		return e.Alternatives[0]
	}
	return e.Alternatives[e.Index]
}

// Key builds the cache key for a function starting at line (0-based) of path
func Key(path string, line int) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return fmt.Sprintf("%s:%d", path, line)
}

// Cache manages the persistent alternatives store
type Cache struct {
	path    string
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates a new cache instance
func New(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]*Entry),
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, derrors.NewCacheError(path, "cannot create cache directory", err)
	}

	// Load existing cache if it exists
	if err := c.load(); err != nil && !os.IsNotExist(err) {
		return nil, derrors.NewCacheError(path, "cannot read cache", err)
	}

	return c, nil
}

// Path returns the file backing the cache
func (c *Cache) Path() string {
	return c.path
}

// Get retrieves an entry from cache
func (c *Cache) Get(key string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[key]
	return entry, found
}

// Set stores an entry in cache and persists it. The index is clamped into
// the alternatives.
func (c *Cache) Set(entry *Entry) error {
	if len(entry.Alternatives) == 0 {
		return derrors.NewValidationError("alternatives", "entry has no alternatives", nil)
	}
	if entry.Index < 0 || entry.Index >= len(entry.Alternatives) {
		entry.Index = 0
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[entry.Key()] = entry
	return c.persist()
}

// Delete removes an entry from cache
func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return c.persist()
}

// DeleteFile removes every entry recorded for path
func (c *Cache) DeleteFile(path string) error {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.Path == path {
			delete(c.entries, key)
		}
	}
	return c.persist()
}

// DeleteUnder removes entries for files inside dir and its subdirectories
func (c *Cache) DeleteUnder(dir string) error {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	dir = filepath.Clean(dir)

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if isParentOf(dir, filepath.Clean(entry.Path)) {
			delete(c.entries, key)
		}
	}
	return c.persist()
}

// isParentOf checks if parent is a parent directory of child
func isParentOf(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	// If the relative path doesn't start with "..", child is under parent
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Clear removes all entries from cache
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Entry)
	return c.persist()
}

// Next moves to the following alternative, wrapping around, and returns it
func (c *Cache) Next(key string) (string, error) {
	return c.step(key, 1)
}

// Previous moves to the preceding alternative, wrapping around, and returns it
func (c *Cache) Previous(key string) (string, error) {
	return c.step(key, -1)
}

func (c *Cache) step(key string, delta int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, found := c.entries[key]
	if !found {
		return "", derrors.NewNotFoundError(key, "no pending alternatives for "+key)
	}

	n := len(entry.Alternatives)
	if n == 0 {
		return "", derrors.NewNotFoundError(key, "no pending alternatives for "+key)
	}
	entry.Index = ((entry.Index+delta)%n + n) % n
	if err := c.persist(); err != nil {
		return "", err
	}
	return entry.Current(), nil
}

// Accept returns the entry with its current alternative and removes it
func (c *Cache) Accept(key string) (*Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, found := c.entries[key]
	if !found {
		return nil, derrors.NewNotFoundError(key, "no pending alternatives for "+key)
	}

	delete(c.entries, key)
	if err := c.persist(); err != nil {
		return nil, err
	}
	return entry, nil
}

// Rebase shifts the entries of path after an insertion of delta lines at
// fromLine and records the new file hash, so pending alternatives below an
// accepted docstring stay usable
func (c *Cache) Rebase(path string, fromLine, delta int, hash string) error {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var moved []*Entry
	for key, entry := range c.entries {
		if entry.Path == path {
			delete(c.entries, key)
			moved = append(moved, entry)
		}
	}
	for _, entry := range moved {
		if entry.Line >= fromLine {
			entry.Line += delta
		}
		if entry.InsertLine >= fromLine {
			entry.InsertLine += delta
		}
		entry.Hash = hash
		c.entries[entry.Key()] = entry
	}
	return c.persist()
}

// Entries returns all entries sorted by path then line
func (c *Cache) Entries() []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Path != entries[j].Path {
			return entries[i].Path < entries[j].Path
		}
		return entries[i].Line < entries[j].Line
	})
	return entries
}

// IsValid reports whether the entry for key was generated from a file with
// the given hash by the given version
func (c *Cache) IsValid(key, hash, version string) bool {
	entry, found := c.Get(key)
	if !found {
		return false
	}

	return entry.Hash == hash && entry.Version == version
}

// load reads cache from disk
func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return err
	}

	var entries map[string]*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}

	c.entries = make(map[string]*Entry, len(entries))
	for key, entry := range entries {
		if entry == nil || len(entry.Alternatives) == 0 {
			continue
		}
		if entry.Index < 0 || entry.Index >= len(entry.Alternatives) {
			entry.Index = 0
		}
		c.entries[key] = entry
	}
	return nil
}

// persist writes cache to disk
func (c *Cache) persist() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return derrors.NewCacheError(c.path, "cannot encode cache", err)
	}

	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return derrors.NewCacheError(c.path, "cannot write cache", err)
	}
	return nil
}
