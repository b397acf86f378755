package trust

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/doxide/internal/derrors"
)

const testConfigPath = "/test/project/.doxide.yml"

var baseURL = map[string]string{"openAI.baseURL": "https://llm.example.com/v1"}

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trusted.json")
	s, err := New(path)
	require.NoError(t, err)
	return s, path
}

func TestStore_AllowAndIsTrusted(t *testing.T) {
	s, _ := newStore(t)

	assert.False(t, s.IsTrusted(testConfigPath, baseURL))

	require.NoError(t, s.Allow(testConfigPath, baseURL))
	assert.True(t, s.IsTrusted(testConfigPath, baseURL))

	grant := s.Get(testConfigPath)
	require.NotNil(t, grant)
	assert.False(t, grant.AllowedAt.IsZero())
	assert.Equal(t, HashSettings(baseURL), grant.SettingsHash)
}

func TestStore_NoSensitiveSettings(t *testing.T) {
	s, _ := newStore(t)
	assert.True(t, s.IsTrusted(testConfigPath, nil))
	assert.True(t, s.IsTrusted(testConfigPath, map[string]string{}))
}

func TestStore_ChangedSettingsNeedApproval(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Allow(testConfigPath, baseURL))

	changed := map[string]string{"openAI.baseURL": "https://elsewhere.example.com/v1"}
	assert.False(t, s.IsTrusted(testConfigPath, changed))

	added := map[string]string{
		"openAI.baseURL":  "https://llm.example.com/v1",
		"prompt.template": "{{ .Text }}",
	}
	assert.False(t, s.IsTrusted(testConfigPath, added))
}

func TestStore_Revoke(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Allow(testConfigPath, baseURL))

	require.NoError(t, s.Revoke(testConfigPath))
	assert.False(t, s.IsTrusted(testConfigPath, baseURL))

	var notFound *derrors.NotFoundError
	require.ErrorAs(t, s.Revoke(testConfigPath), &notFound)
}

func TestStore_ListAndClear(t *testing.T) {
	s, _ := newStore(t)
	assert.Empty(t, s.List())

	require.NoError(t, s.Allow("/b/.doxide.yml", baseURL))
	require.NoError(t, s.Allow("/a/.doxide.yml", baseURL))
	require.NoError(t, s.Allow("/a/.doxide.yml", baseURL))
	assert.Equal(t, []string{"/a/.doxide.yml", "/b/.doxide.yml"}, s.List())

	require.NoError(t, s.Clear())
	assert.Empty(t, s.List())
}

func TestStore_Persistence(t *testing.T) {
	s1, path := newStore(t)
	require.NoError(t, s1.Allow(testConfigPath, baseURL))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	s2, err := New(path)
	require.NoError(t, err)
	assert.True(t, s2.IsTrusted(testConfigPath, baseURL))
}

func TestStore_NormalizesPaths(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Allow("/test/project/../project/.doxide.yml", baseURL))
	assert.True(t, s.IsTrusted(testConfigPath, baseURL))
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trusted.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := New(path)
	var cacheErr *derrors.CacheError
	require.ErrorAs(t, err, &cacheErr)
}

func TestHashSettings_OrderIndependent(t *testing.T) {
	a := map[string]string{"x": "1", "y": "2"}
	b := map[string]string{"y": "2", "x": "1"}
	assert.Equal(t, HashSettings(a), HashSettings(b))
	assert.NotEqual(t, HashSettings(a), HashSettings(map[string]string{"x": "1"}))
}
