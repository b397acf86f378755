package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/doxide/internal/cache"
)

func seedCache(t *testing.T, cachePath string, paths ...string) {
	t.Helper()
	c, err := cache.New(cachePath)
	require.NoError(t, err)
	for _, p := range paths {
		require.NoError(t, c.Set(&cache.Entry{Path: p, Line: 3, Alternatives: []string{"a", "b"}, Hash: "h"}))
	}
}

func remaining(t *testing.T, cachePath string) []string {
	t.Helper()
	c, err := cache.New(cachePath)
	require.NoError(t, err)
	var paths []string
	for _, e := range c.Entries() {
		paths = append(paths, e.Path)
	}
	return paths
}

func TestClean_All(t *testing.T) {
	tmpDir := t.TempDir()
	cachePath := filepath.Join(tmpDir, "cache.json")
	seedCache(t, cachePath, "/path/one.py", "/other/two.py")

	out := &bytes.Buffer{}
	err := Clean(CleanParams{CachePath: cachePath, LogLevel: "error", All: true, Stdout: out})
	require.NoError(t, err)

	assert.Empty(t, remaining(t, cachePath))
	assert.Contains(t, out.String(), "All pending alternatives cleared")
}

func TestClean_File(t *testing.T) {
	tmpDir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	cachePath := filepath.Join(tmpDir, "cache.json")
	one := filepath.Join(tmpDir, "one.py")
	two := filepath.Join(tmpDir, "two.py")
	seedCache(t, cachePath, one, two)

	err = Clean(CleanParams{CachePath: cachePath, LogLevel: "error", File: one, Stdout: &bytes.Buffer{}})
	require.NoError(t, err)

	assert.Equal(t, []string{two}, remaining(t, cachePath))
}

func TestClean_Directory(t *testing.T) {
	// Resolve symlinks for macOS compatibility where /tmp -> /private/tmp
	tmpDir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	cachePath := filepath.Join(tmpDir, "cache.json")

	project := filepath.Join(tmpDir, "project")
	sub := filepath.Join(project, "sub")
	require.NoError(t, os.MkdirAll(sub, 0755))
	outside := filepath.Join(tmpDir, "elsewhere", "x.py")
	seedCache(t, cachePath, filepath.Join(project, "a.py"), filepath.Join(sub, "b.py"), outside)

	out := &bytes.Buffer{}
	err = Clean(CleanParams{CachePath: cachePath, LogLevel: "error", Dir: project, Stdout: out})
	require.NoError(t, err)

	assert.Equal(t, []string{outside}, remaining(t, cachePath))
	assert.Contains(t, out.String(), project)
}

func TestClean_WorkingDirectory(t *testing.T) {
	tmpDir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	cachePath := filepath.Join(t.TempDir(), "cache.json")
	seedCache(t, cachePath, filepath.Join(tmpDir, "a.py"))

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()
	require.NoError(t, os.Chdir(tmpDir))

	require.NoError(t, Clean(CleanParams{CachePath: cachePath, LogLevel: "error", Stdout: &bytes.Buffer{}}))
	assert.Empty(t, remaining(t, cachePath))
}

func TestClean_InvalidCachePath(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := Clean(CleanParams{CachePath: filepath.Join(blocker, "cache.json"), LogLevel: "error", All: true})
	require.Error(t, err)
}

func TestClean_EmptyCache(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.json")

	err := Clean(CleanParams{CachePath: cachePath, LogLevel: "error", All: true, Stdout: &bytes.Buffer{}})
	require.NoError(t, err)
}
