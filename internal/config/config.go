// Package config loads doxide settings from embedded defaults, the global
// config file, the nearest project config, the environment and an optional
// explicit file, in that order of precedence.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/NikitaCOEUR/doxide/internal/derrors"
	"github.com/NikitaCOEUR/doxide/internal/docstring"
)

//go:embed defaults.yml
var defaultsYAML []byte

// SupportedConfigNames contains project configuration file names (in order of preference)
var SupportedConfigNames = []string{
	".doxide.yml",
	".doxide.yaml",
	".doxide.toml",
	".doxide.json",
}

const (
	// GlobalConfigName is the name of the global config file
	GlobalConfigName = "config.yml"

	// EnvPrefix prefixes every environment override
	EnvPrefix = "DOXIDE_"
)

// envKeys maps environment variables to config keys. koanf keys are
// case-sensitive, so the mapping is explicit rather than derived.
var envKeys = map[string]string{
	"DOXIDE_CODELENS_ENABLED":           "codeLens.enabled",
	"DOXIDE_CODELENS_TITLE":             "codeLens.generateTitle",
	"DOXIDE_OPENAI_ENGINE":              "openAI.engine",
	"DOXIDE_OPENAI_API_KEY":             "openAI.apiKey",
	"DOXIDE_OPENAI_BASE_URL":            "openAI.baseURL",
	"DOXIDE_OPENAI_N":                   "openAI.config.n",
	"DOXIDE_OPENAI_TIMEOUT":             "openAI.timeout",
	"DOXIDE_OPENAI_REQUESTS_PER_MINUTE": "openAI.requestsPerMinute",
	"DOXIDE_TAB_SIZE":                   "editor.tabSize",
	"DOXIDE_INSERT_SPACES":              "editor.insertSpaces",
}

// CodeLensConfig controls the inline Generate action
type CodeLensConfig struct {
	Enabled       bool   `koanf:"enabled"`
	GenerateTitle string `koanf:"generateTitle"`
}

// CompletionParams are per-request knobs of the completion API
type CompletionParams struct {
	N int `koanf:"n"`
}

// OpenAIConfig configures the completion provider
type OpenAIConfig struct {
	Engine            string           `koanf:"engine"`
	APIKey            string           `koanf:"apiKey"`
	BaseURL           string           `koanf:"baseURL"`
	Config            CompletionParams `koanf:"config"`
	Timeout           time.Duration    `koanf:"timeout"`
	RequestsPerMinute int              `koanf:"requestsPerMinute"`
	FewShot           bool             `koanf:"fewShot"`
}

// PromptConfig lets users replace the prompt template
type PromptConfig struct {
	Template string `koanf:"template"`
}

// EditorConfig mirrors the editor's indentation options
type EditorConfig struct {
	TabSize      int  `koanf:"tabSize"`
	InsertSpaces bool `koanf:"insertSpaces"`
}

// LanguageConfig holds the per-language docstring tokens
type LanguageConfig struct {
	StartDocstringToken string   `koanf:"startDocstringToken"`
	EndDocstringToken   string   `koanf:"endDocstringToken"`
	StopTokens          []string `koanf:"stopTokens"`
}

// Config represents the resolved doxide configuration
type Config struct {
	CodeLens  CodeLensConfig            `koanf:"codeLens"`
	OpenAI    OpenAIConfig              `koanf:"openAI"`
	Prompt    PromptConfig              `koanf:"prompt"`
	Editor    EditorConfig              `koanf:"editor"`
	Languages map[string]LanguageConfig `koanf:"languages"`
}

// FormatterSettings snapshots the parts of the config the formatter needs
func (c *Config) FormatterSettings() docstring.Settings {
	languages := make(map[string]docstring.Delimiters, len(c.Languages))
	for id, lang := range c.Languages {
		languages[id] = docstring.Delimiters{
			Start: lang.StartDocstringToken,
			End:   lang.EndDocstringToken,
		}
	}
	return docstring.NewSettings(
		docstring.IndentUnitFromEditor(c.Editor.TabSize, c.Editor.InsertSpaces),
		languages,
	)
}

// StopTokens returns the completion stop sequences for a language, falling
// back to python's when the language has none.
func (c *Config) StopTokens(languageID string) []string {
	if lang, ok := c.Languages[languageID]; ok && len(lang.StopTokens) > 0 {
		return lang.StopTokens
	}
	if lang, ok := c.Languages["python"]; ok && len(lang.StopTokens) > 0 {
		return lang.StopTokens
	}
	return []string{"#", `"""`, "'''"}
}

// Loader resolves configuration layers
type Loader struct {
	globalPath string
	useEnv     bool
}

// New creates a loader using the default global config location and
// environment overrides
func New() *Loader {
	globalPath, err := GetGlobalConfigPath()
	if err != nil {
		globalPath = ""
	}
	return &Loader{globalPath: globalPath, useEnv: true}
}

// WithGlobalPath overrides the global config location ("" disables it)
func (l *Loader) WithGlobalPath(path string) *Loader {
	l.globalPath = path
	return l
}

// WithoutEnv disables environment overrides
func (l *Loader) WithoutEnv() *Loader {
	l.useEnv = false
	return l
}

// Defaults returns the configuration with only embedded defaults applied
func Defaults() *Config {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		panic(fmt.Sprintf("invalid embedded defaults: %v", err))
	}
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		panic(fmt.Sprintf("invalid embedded defaults: %v", err))
	}
	return cfg
}

// Load resolves the configuration for files under dir. explicitPath, when
// set, is applied last. It returns the config files that contributed.
func (l *Loader) Load(dir, explicitPath string) (*Config, []string, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return nil, nil, derrors.NewConfigurationError("<defaults>", "failed to load defaults", err)
	}

	var sources []string

	if l.globalPath != "" {
		if _, err := os.Stat(l.globalPath); err == nil {
			if err := loadFile(k, l.globalPath); err != nil {
				return nil, sources, err
			}
			sources = append(sources, l.globalPath)
		}
	}

	if dir != "" {
		if projectPath := FindProjectConfig(dir); projectPath != "" && projectPath != l.globalPath {
			if err := loadFile(k, projectPath); err != nil {
				return nil, sources, err
			}
			sources = append(sources, projectPath)
		}
	}

	if l.useEnv {
		provider := env.Provider(EnvPrefix, ".", func(s string) string {
			return envKeys[s]
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, sources, derrors.NewConfigurationError("<env>", "failed to load environment", err)
		}
	}

	if explicitPath != "" {
		if err := loadFile(k, explicitPath); err != nil {
			return nil, sources, err
		}
		sources = append(sources, explicitPath)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, sources, derrors.NewConfigurationError("", "failed to unmarshal config", err)
	}

	if cfg.OpenAI.APIKey == "" && l.useEnv {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg, sources, nil
}

// ParserFor returns the koanf parser matching a config file extension
func ParserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
}

func loadFile(k *koanf.Koanf, path string) error {
	parser, err := ParserFor(path)
	if err != nil {
		return derrors.NewConfigurationError(path, "cannot load config", err)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return derrors.NewConfigurationError(path, "failed to load config", err)
	}
	return nil
}

// GetGlobalConfigPath returns the path to the global config file
func GetGlobalConfigPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}

	return filepath.Join(configHome, "doxide", GlobalConfigName), nil
}

// FindProjectConfig returns the nearest project config walking up from
// startDir, or "" when there is none
func FindProjectConfig(startDir string) string {
	currentDir := filepath.Clean(startDir)

	for {
		for _, name := range SupportedConfigNames {
			path := filepath.Join(currentDir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			return ""
		}
		currentDir = parent
	}
}

// SensitiveKeys are the settings that decide where function text is sent and
// with which credentials. A project config setting any of them must be
// trusted before a completion is requested.
var SensitiveKeys = []string{"openAI.apiKey", "openAI.baseURL", "prompt.template"}

// SensitiveSettings returns the sensitive keys set by a single config file
func SensitiveSettings(path string) (map[string]string, error) {
	k := koanf.New(".")
	if err := loadFile(k, path); err != nil {
		return nil, err
	}
	settings := make(map[string]string)
	for _, key := range SensitiveKeys {
		if k.Exists(key) {
			settings[key] = k.String(key)
		}
	}
	return settings, nil
}
