package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSchemaJSON(t *testing.T) {
	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(GetSchemaJSON()), &schema))
	assert.Equal(t, "Doxide Configuration", schema["title"])
}

func TestValidateWithSchema_ValidYAML(t *testing.T) {
	content := []byte(`
codeLens:
  enabled: true
  generateTitle: Generate
openAI:
  engine: davinci-codex
  config:
    n: 2
  timeout: 30s
editor:
  tabSize: 4
  insertSpaces: true
languages:
  python:
    startDocstringToken: "'''"
    endDocstringToken: "'''"
    stopTokens: ["#"]
`)

	result, err := ValidateWithSchema("config.yml", content)
	require.NoError(t, err)
	assert.True(t, result.Valid, "%v", result.Errors)
	assert.Empty(t, result.Errors)
}

func TestValidateWithSchema_EmptyDocument(t *testing.T) {
	result, err := ValidateWithSchema(".doxide.yaml", []byte(""))
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateWithSchema_UnknownKey(t *testing.T) {
	result, err := ValidateWithSchema(".doxide.yml", []byte("codelens:\n  enabled: true\n"))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}

func TestValidateWithSchema_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero tab size", "editor:\n  tabSize: 0\n"},
		{"n below one", "openAI:\n  config:\n    n: 0\n"},
		{"bad timeout", "openAI:\n  timeout: soon\n"},
		{"bad language id", "languages:\n  Python:\n    startDocstringToken: x\n"},
		{"too many stop tokens", "languages:\n  python:\n    stopTokens: [a, b, c, d, e]\n"},
		{"wrong type", "codeLens:\n  enabled: maybe\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateWithSchema(".doxide.yml", []byte(tt.content))
			require.NoError(t, err)
			assert.False(t, result.Valid)
		})
	}
}

func TestValidateWithSchema_JSONAndTOML(t *testing.T) {
	result, err := ValidateWithSchema(".doxide.json", []byte(`{"editor": {"tabSize": 2}}`))
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = ValidateWithSchema(".doxide.json", []byte(`{"editor": `))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "syntax", result.Errors[0].Field)

	result, err = ValidateWithSchema(".doxide.toml", []byte("[editor]\ntabSize = 2\n"))
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = ValidateWithSchema(".doxide.toml", []byte("[editor\n"))
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidateWithSchema_UnsupportedFormat(t *testing.T) {
	_, err := ValidateWithSchema("config.ini", []byte("x=1"))
	assert.Error(t, err)
}
