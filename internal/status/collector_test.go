package status

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/doxide/internal/cache"
	"github.com/NikitaCOEUR/doxide/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	// Resolve symlinks to handle macOS /var -> /private/var
	tmpDir, err := filepath.EvalSymlinks(tmpDir)
	require.NoError(t, err)

	// Isolate from user's global config and keys
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DOXIDE_OPENAI_API_KEY", "")
	return tmpDir
}

// TestCollect_EmptyDirectory tests status collection in a directory without any config
func TestCollect_EmptyDirectory(t *testing.T) {
	tmpDir := isolate(t)
	cachePath := filepath.Join(tmpDir, "alternatives.json")

	data, err := Collect(CollectOptions{
		Dir:             tmpDir,
		CachePath:       cachePath,
		Version:         "1.2.3",
		SymbolLanguages: []string{"python"},
	})
	require.NoError(t, err)

	assert.Equal(t, tmpDir, data.CurrentDir)
	assert.Equal(t, "1.2.3", data.Version)
	assert.False(t, data.GlobalConfigExists)
	assert.Empty(t, data.ConfigSources)
	assert.Empty(t, data.ConfigError)
	assert.Empty(t, data.APIKeySource)

	assert.True(t, data.CodeLensEnabled)
	assert.Equal(t, "davinci-codex", data.Engine)
	assert.Equal(t, 1, data.Choices)
	assert.Equal(t, "4 spaces", data.Indent)

	var ids []string
	for _, l := range data.Languages {
		ids = append(ids, l.ID)
		if l.ID == "python" {
			assert.True(t, l.Symbols)
			assert.Equal(t, "'''", l.Start)
		}
	}
	assert.Equal(t, []string{"javascript", "python", "typescript"}, ids)

	assert.Equal(t, cachePath, data.CachePath)
	assert.Equal(t, int64(0), data.CacheFileSize)
	assert.Empty(t, data.Pending)
}

// TestCollect_ProjectConfig tests that project settings and key source show up
func TestCollect_ProjectConfig(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")

	configPath := filepath.Join(tmpDir, ".doxide.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("editor:\n  insertSpaces: false\nopenAI:\n  config:\n    n: 3\n"), 0o644))

	data, err := Collect(CollectOptions{Dir: tmpDir})
	require.NoError(t, err)

	assert.Equal(t, []string{configPath}, data.ConfigSources)
	assert.Equal(t, "tabs", data.Indent)
	assert.Equal(t, 3, data.Choices)
	assert.Equal(t, "OPENAI_API_KEY", data.APIKeySource)
}

// TestCollect_BrokenConfig tests that load errors are reported, not returned
func TestCollect_BrokenConfig(t *testing.T) {
	tmpDir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".doxide.yml"), []byte("editor: [unclosed\n"), 0o644))

	data, err := Collect(CollectOptions{Dir: tmpDir, Loader: config.New().WithGlobalPath("")})
	require.NoError(t, err)
	assert.NotEmpty(t, data.ConfigError)
	assert.Equal(t, "davinci-codex", data.Engine)
}

// TestCollect_WithCache tests pending alternatives listing
func TestCollect_WithCache(t *testing.T) {
	tmpDir := isolate(t)
	cachePath := filepath.Join(tmpDir, "alternatives.json")

	store, err := cache.New(cachePath)
	require.NoError(t, err)
	require.NoError(t, store.Set(&cache.Entry{
		Path:         filepath.Join(tmpDir, "app.py"),
		Line:         4,
		Alternatives: []string{"a", "b"},
	}))

	data, err := Collect(CollectOptions{Dir: tmpDir, CachePath: cachePath})
	require.NoError(t, err)

	assert.Greater(t, data.CacheFileSize, int64(0))
	assert.Equal(t, 1, data.CacheTotalEntries)
	assert.Equal(t, 2, data.CacheTotalAlternatives)
	require.Len(t, data.Pending, 1)
	assert.Equal(t, 4, data.Pending[0].Line)
	assert.Equal(t, 2, data.Pending[0].Alternatives)
}
