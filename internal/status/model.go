package status

import (
	"time"
)

// Data contains all the information to display in status
type Data struct {
	// Header
	CurrentDir string
	Version    string

	// Configuration
	GlobalConfigPath   string
	GlobalConfigExists bool
	ConfigSources      []string
	ConfigError        string

	// Lenses
	CodeLensEnabled bool
	GenerateTitle   string

	// Completion API
	Engine            string
	BaseURL           string
	Choices           int
	Timeout           time.Duration
	RequestsPerMinute int
	FewShot           bool
	CustomPrompt      bool
	APIKeySource      string // "" when no key is configured

	// Formatter
	Indent    string
	Languages []LanguageInfo

	// Cache
	CachePath              string
	CacheFileSize          int64
	CacheTotalEntries      int
	CacheTotalAlternatives int
	Pending                []PendingInfo
}

// LanguageInfo describes how one language is documented
type LanguageInfo struct {
	ID         string
	Start      string
	End        string
	StopTokens []string
	// Symbols is true when functions can be detected in this language
	Symbols bool
}

// PendingInfo summarizes a stored set of alternatives
type PendingInfo struct {
	Path         string
	Line         int
	Alternatives int
	Index        int
	Updated      time.Time
}
