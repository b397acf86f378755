package cli

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/NikitaCOEUR/doxide/internal/cache"
	"github.com/NikitaCOEUR/doxide/internal/completion"
	"github.com/NikitaCOEUR/doxide/internal/config"
	"github.com/NikitaCOEUR/doxide/internal/derrors"
	"github.com/NikitaCOEUR/doxide/internal/lens"
	"github.com/NikitaCOEUR/doxide/internal/logger"
	"github.com/NikitaCOEUR/doxide/internal/symbols"
	"github.com/NikitaCOEUR/doxide/internal/trust"
)

// Common holds what every document command needs
type Common struct {
	LogLevel string
	// ConfigPath is an explicit config file applied last
	ConfigPath string
	CachePath  string
	// TrustPath holds trusted project configs; "" skips the trust check
	TrustPath string
	Stdout    io.Writer
	// Provider replaces the OpenAI provider built from config
	Provider completion.Provider
	// Loader replaces the default config loader
	Loader *config.Loader
}

func (c Common) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

// components holds initialized doxide components
type components struct {
	log      *logger.Logger
	config   *config.Config
	sources  []string
	registry *symbols.Registry
	lenses   *lens.Provider
	provider completion.Provider
	cache    *cache.Cache
}

// initializeComponents resolves configuration for files under dir and
// builds the components from it
func initializeComponents(common Common, dir string) (*components, error) {
	log := logger.New(common.LogLevel, nil)

	cfg, sources, err := loadConfig(common, dir, log)
	if err != nil {
		return nil, err
	}

	registry := symbols.NewRegistry()

	provider := common.Provider
	if provider == nil {
		if err := checkTrust(common, dir, sources); err != nil {
			return nil, err
		}
		prompt, err := completion.ParsePrompt(cfg.Prompt.Template, cfg.OpenAI.FewShot)
		if err != nil {
			return nil, err
		}
		provider, err = completion.NewOpenAI(completion.Options{
			Model:             cfg.OpenAI.Engine,
			APIKey:            cfg.OpenAI.APIKey,
			BaseURL:           cfg.OpenAI.BaseURL,
			N:                 cfg.OpenAI.Config.N,
			Timeout:           cfg.OpenAI.Timeout,
			RequestsPerMinute: cfg.OpenAI.RequestsPerMinute,
			StopTokens:        cfg.StopTokens,
			Prompt:            prompt,
			Logger:            log,
		})
		if err != nil {
			return nil, err
		}
	}

	var store *cache.Cache
	if common.CachePath != "" {
		if store, err = cache.New(common.CachePath); err != nil {
			return nil, fmt.Errorf("failed to initialize cache: %w", err)
		}
	}

	return &components{
		log:      log,
		config:   cfg,
		sources:  sources,
		registry: registry,
		lenses: lens.NewProvider(registry, lens.Options{
			Enabled:       cfg.CodeLens.Enabled,
			GenerateTitle: cfg.CodeLens.GenerateTitle,
		}, log),
		provider: provider,
		cache:    store,
	}, nil
}

// loadConfig resolves the configuration layers for files under dir
func loadConfig(common Common, dir string, log *logger.Logger) (*config.Config, []string, error) {
	loader := common.Loader
	if loader == nil {
		loader = config.New()
	}
	cfg, sources, err := loader.Load(dir, common.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Str("dir", dir).Strs("sources", sources).Msg("configuration loaded")
	return cfg, sources, nil
}

// loadDocument reads a source file and returns it with an absolute path
func loadDocument(path string) (symbols.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return symbols.Document{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	doc, err := symbols.Load(abs)
	if err != nil {
		return symbols.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return doc, nil
}

// contentHash fingerprints a document so stored alternatives can be
// matched against the file they were generated from
func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// DefaultCachePath returns where alternatives are stored
func DefaultCachePath() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, _ := os.UserHomeDir()
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, "doxide", "alternatives.json")
}

// checkTrust refuses a project config that changes where function text is
// sent until it has been allowed with its current settings
func checkTrust(common Common, dir string, sources []string) error {
	if common.TrustPath == "" {
		return nil
	}
	project := config.FindProjectConfig(dir)
	if project == "" || !slices.Contains(sources, project) {
		return nil
	}
	settings, err := config.SensitiveSettings(project)
	if err != nil {
		return err
	}
	if len(settings) == 0 {
		return nil
	}
	store, err := trust.New(common.TrustPath)
	if err != nil {
		return err
	}
	if store.IsTrusted(project, settings) {
		return nil
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return derrors.NewConfigurationError(project,
		fmt.Sprintf("%s sets %s; run 'doxide allow %s' to trust it", project, strings.Join(keys, ", "), filepath.Dir(project)), nil)
}

// DefaultTrustPath returns where trusted project configs are recorded
func DefaultTrustPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "doxide", "trusted.json")
}
