package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/NikitaCOEUR/doxide/internal/config"
	"github.com/NikitaCOEUR/doxide/internal/derrors"
)

const sampleConfig = `# yaml-language-server: $schema=https://raw.githubusercontent.com/NikitaCOEUR/doxide/main/schema/doxide.schema.json
# Doxide configuration file
# Documentation: https://github.com/NikitaCOEUR/doxide

# Inline Generate action
codeLens:
  enabled: true
  # generateTitle: Generate

# Completion API
openAI:
  engine: davinci-codex
  # apiKey is better set through OPENAI_API_KEY
  # baseURL: https://api.openai.com/v1
  config:
    # Number of alternatives to request
    n: 1
  # timeout: 60s
  # requestsPerMinute: 0
  # fewShot: false

# Prompt sent to the API: a Go template over .Text, .LanguageID and
# .Instruction with sprig functions
# prompt:
#   template: |
#     {{ .Text }}
#     {{ .Instruction }}
#     """

# Indentation used for docstrings
editor:
  tabSize: 4
  insertSpaces: true

# Docstring delimiters per language id
languages:
  python:
    startDocstringToken: "'''"
    endDocstringToken: "'''"
  # javascript:
  #   startDocstringToken: "/**"
  #   endDocstringToken: "*/"
`

// InitParams contains parameters for the Init command
type InitParams struct {
	Global bool
	// Dir receives the project config; defaults to the working directory
	Dir    string
	Stdout io.Writer
}

// Init creates a sample .doxide.yml config file in the project directory or the global config
func Init(params InitParams) error {
	out := params.Stdout
	if out == nil {
		out = os.Stdout
	}

	var configPath string
	if params.Global {
		globalPath, err := config.GetGlobalConfigPath()
		if err != nil {
			return derrors.NewConfigurationError("", "failed to get global config path", err)
		}
		configPath = globalPath

		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return derrors.NewConfigurationError(configPath, "failed to create config directory", err)
		}
	} else {
		dir := params.Dir
		if dir == "" {
			currentDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			dir = currentDir
		}
		configPath = filepath.Join(dir, config.SupportedConfigNames[0])
	}

	if _, err := os.Stat(configPath); err == nil {
		return derrors.NewAlreadyExistsError(configPath, fmt.Sprintf("config file already exists: %s", configPath))
	}

	if err := os.WriteFile(configPath, []byte(sampleConfig), 0644); err != nil {
		return derrors.NewConfigurationError(configPath, "failed to create config file", err)
	}

	if params.Global {
		fmt.Fprintf(out, "Created global config: %s\n", configPath)
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintln(out, "  1. Export OPENAI_API_KEY or set openAI.apiKey")
		fmt.Fprintln(out, "  2. Run 'doxide edit --global' to edit the global config")
		fmt.Fprintln(out, "  3. The global config applies to every project")
	} else {
		fmt.Fprintf(out, "Created sample config: %s\n", configPath)
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintln(out, "  1. Edit the config file to suit your needs")
		fmt.Fprintln(out, "  2. Run 'doxide validate' to check it")
		fmt.Fprintln(out, "  3. Run 'doxide lens <file>' to list the functions you can document")
	}

	return nil
}
