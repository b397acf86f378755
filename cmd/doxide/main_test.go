package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/doxide/internal/derrors"
)

// run executes the CLI isolated from the user's config and cache
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DOXIDE_OPENAI_API_KEY", "")

	out := &bytes.Buffer{}
	state := paths{
		cache: filepath.Join(t.TempDir(), "alternatives.json"),
		trust: filepath.Join(t.TempDir(), "trusted.json"),
	}
	app := newApp(state, strings.NewReader(stdin), out)
	err := app.Run(context.Background(), append([]string{"doxide", "--log-level", "error"}, args...))
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFormatCommand(t *testing.T) {
	out, err := run(t, "Adds one.\n", "format", "--lang", "javascript")
	require.NoError(t, err)
	assert.Equal(t, "/**Adds one.\n*/\n", out)
}

func TestFormatCommand_Source(t *testing.T) {
	source := writeFile(t, "f.py", "def f(x):\n  return x\n")

	out, err := run(t, "Identity.\nReturns x.", "format", "--source", source, "--tab-size", "2")
	require.NoError(t, err)
	assert.Equal(t, "  '''Identity.\n  Returns x.\n  '''\n", out)
}

func TestLensCommand(t *testing.T) {
	source := writeFile(t, "f.py", "def f(x):\n    return x\n")

	out, err := run(t, "", "lens", "--json", source)
	require.NoError(t, err)
	assert.Contains(t, out, `"command": "doxide.generateDocstring"`)
	assert.Contains(t, out, `"symbol": "f"`)
}

func TestDocumentCommandsRequireFile(t *testing.T) {
	for _, name := range []string{"lens", "generate", "next", "previous", "accept"} {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, "", name)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "file argument required")
		})
	}
}

func TestGenerateCommand_MissingAPIKey(t *testing.T) {
	source := writeFile(t, "f.py", "def f(x):\n    return x\n")

	_, err := run(t, "", "generate", "--line", "1", source)
	var credentials *derrors.CredentialsError
	require.ErrorAs(t, err, &credentials)
}

func TestGenerateCommand_RequiresSelection(t *testing.T) {
	source := writeFile(t, "f.py", "def f(x):\n    return x\n")

	_, err := run(t, "", "generate", source)
	var validation *derrors.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestNextCommand_NothingPending(t *testing.T) {
	source := writeFile(t, "f.py", "def f(x):\n    return x\n")

	_, err := run(t, "", "next", "--line", "1", source)
	var notFound *derrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestSchemaCommand(t *testing.T) {
	out, err := run(t, "", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "Doxide Configuration"`)
}

func TestValidateCommand(t *testing.T) {
	configPath := writeFile(t, ".doxide.yml", "editor:\n  tabSize: 0\n")

	out, err := run(t, "", "validate", configPath)
	require.Error(t, err)
	assert.Contains(t, out, "Configuration has errors")
}

func TestStatusCommand(t *testing.T) {
	out, err := run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "davinci-codex")
}

func TestAllowCommand(t *testing.T) {
	configPath := writeFile(t, ".doxide.yml", "openAI:\n  baseURL: https://llm.example.com/v1\n")
	dir := filepath.Dir(configPath)

	out, err := run(t, "", "allow", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Trusted")

	_, err = run(t, "", "revoke", filepath.Join(dir, "missing"))
	require.Error(t, err)
}
