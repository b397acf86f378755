// Package status provides status information collection and display for doxide.
package status

import (
	"fmt"
	"os"
	"sort"

	"github.com/NikitaCOEUR/doxide/internal/cache"
	"github.com/NikitaCOEUR/doxide/internal/config"
)

// CollectOptions says where to look for configuration and cache
type CollectOptions struct {
	Dir            string
	ExplicitConfig string
	CachePath      string
	Version        string
	Loader         *config.Loader
	// SymbolLanguages lists the language ids with a symbol source
	SymbolLanguages []string
}

// Collect gathers status information. A broken config is reported in the
// data rather than returned, so status still renders.
func Collect(opts CollectOptions) (*Data, error) {
	data := &Data{
		CurrentDir: opts.Dir,
		Version:    opts.Version,
		CachePath:  opts.CachePath,
	}

	if data.CurrentDir == "" {
		currentDir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		data.CurrentDir = currentDir
	}

	if globalPath, err := config.GetGlobalConfigPath(); err == nil {
		data.GlobalConfigPath = globalPath
		_, statErr := os.Stat(globalPath)
		data.GlobalConfigExists = statErr == nil
	}

	loader := opts.Loader
	if loader == nil {
		loader = config.New()
	}
	cfg, sources, err := loader.Load(data.CurrentDir, opts.ExplicitConfig)
	data.ConfigSources = sources
	if err != nil {
		data.ConfigError = err.Error()
		cfg = config.Defaults()
	}
	collectConfig(data, cfg, opts.SymbolLanguages)

	if err := collectCache(data, opts.CachePath); err != nil {
		return nil, err
	}
	return data, nil
}

func collectConfig(data *Data, cfg *config.Config, symbolLanguages []string) {
	data.CodeLensEnabled = cfg.CodeLens.Enabled
	data.GenerateTitle = cfg.CodeLens.GenerateTitle
	data.Engine = cfg.OpenAI.Engine
	data.BaseURL = cfg.OpenAI.BaseURL
	data.Choices = cfg.OpenAI.Config.N
	data.Timeout = cfg.OpenAI.Timeout
	data.RequestsPerMinute = cfg.OpenAI.RequestsPerMinute
	data.FewShot = cfg.OpenAI.FewShot
	data.CustomPrompt = cfg.Prompt.Template != ""

	switch {
	case cfg.OpenAI.APIKey == "":
	case os.Getenv("DOXIDE_OPENAI_API_KEY") == cfg.OpenAI.APIKey:
		data.APIKeySource = "DOXIDE_OPENAI_API_KEY"
	case os.Getenv("OPENAI_API_KEY") == cfg.OpenAI.APIKey:
		data.APIKeySource = "OPENAI_API_KEY"
	default:
		data.APIKeySource = "config file"
	}

	settings := cfg.FormatterSettings()
	if settings.Indent.UsesTabs() {
		data.Indent = "tabs"
	} else {
		data.Indent = fmt.Sprintf("%d spaces", settings.Indent.Width())
	}

	supported := make(map[string]bool, len(symbolLanguages))
	for _, id := range symbolLanguages {
		supported[id] = true
	}
	for id := range settings.Languages() {
		d := settings.Delimiters(id)
		data.Languages = append(data.Languages, LanguageInfo{
			ID:         id,
			Start:      d.Start,
			End:        d.End,
			StopTokens: cfg.StopTokens(id),
			Symbols:    supported[id],
		})
	}
	sort.Slice(data.Languages, func(i, j int) bool { return data.Languages[i].ID < data.Languages[j].ID })
}

func collectCache(data *Data, cachePath string) error {
	if cachePath == "" {
		return nil
	}

	info, err := cache.Stat(cachePath)
	if err != nil {
		return fmt.Errorf("failed to read cache info: %w", err)
	}
	data.CacheFileSize = info.Size
	data.CacheTotalEntries = info.Entries
	data.CacheTotalAlternatives = info.Alternatives

	if info.Size == 0 {
		return nil
	}
	store, err := cache.New(cachePath)
	if err != nil {
		// unreadable cache: keep the file stats only
		return nil
	}
	for _, e := range store.Entries() {
		data.Pending = append(data.Pending, PendingInfo{
			Path:         e.Path,
			Line:         e.Line,
			Alternatives: len(e.Alternatives),
			Index:        e.Index,
			Updated:      e.Timestamp,
		})
	}
	return nil
}
