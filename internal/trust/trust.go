// Package trust records which project config files may change where and how
// function text is sent for completion.
package trust

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/NikitaCOEUR/doxide/internal/derrors"
)

// Grant is the trust state of one config file. SettingsHash pins the
// sensitive settings that were reviewed.
type Grant struct {
	Allowed      bool      `json:"allowed"`
	AllowedAt    time.Time `json:"allowed_at,omitempty"`
	SettingsHash string    `json:"settings_hash,omitempty"`
}

// Store manages trusted project config files
type Store struct {
	path   string
	mu     sync.RWMutex
	grants map[string]*Grant
}

// New opens the store persisted at path
func New(path string) (*Store, error) {
	s := &Store{
		path:   path,
		grants: make(map[string]*Grant),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, derrors.NewCacheError(path, "cannot create trust directory", err)
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, derrors.NewCacheError(path, "cannot read trust store", err)
	}

	return s, nil
}

// HashSettings computes a deterministic hash of key/value settings
func HashSettings(settings map[string]string) string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h := sha256.New()
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s\n", k, settings[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the grant of a config file, or nil
func (s *Store) Get(configPath string) *Grant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grants[normalizePath(configPath)]
}

// Allow trusts configPath with its current sensitive settings
func (s *Store) Allow(configPath string, settings map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.grants[normalizePath(configPath)] = &Grant{
		Allowed:      true,
		AllowedAt:    time.Now(),
		SettingsHash: HashSettings(settings),
	}
	return s.persist()
}

// IsTrusted reports whether configPath was allowed with exactly these
// settings. A file without sensitive settings needs no grant.
func (s *Store) IsTrusted(configPath string, settings map[string]string) bool {
	if len(settings) == 0 {
		return true
	}
	grant := s.Get(configPath)
	return grant != nil && grant.Allowed && grant.SettingsHash == HashSettings(settings)
}

// Revoke forgets a config file
func (s *Store) Revoke(configPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := normalizePath(configPath)
	if _, ok := s.grants[normalized]; !ok {
		return derrors.NewNotFoundError(normalized, "config is not trusted: "+normalized)
	}
	delete(s.grants, normalized)
	return s.persist()
}

// List returns the trusted config files, sorted
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.grants))
	for path, grant := range s.grants {
		if grant.Allowed {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

// Clear removes every grant
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.grants = make(map[string]*Grant)
	return s.persist()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var grants map[string]*Grant
	if err := json.Unmarshal(data, &grants); err != nil {
		return err
	}

	s.grants = make(map[string]*Grant, len(grants))
	for path, grant := range grants {
		if grant != nil {
			s.grants[normalizePath(path)] = grant
		}
	}
	return nil
}

func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.grants, "", "  ")
	if err != nil {
		return derrors.NewCacheError(s.path, "cannot encode trust store", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return derrors.NewCacheError(s.path, "cannot write trust store", err)
	}
	return nil
}

func normalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
