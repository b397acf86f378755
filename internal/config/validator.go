package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string
	Message string
}

// ValidationResult contains the results of config validation
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

func (r *ValidationResult) add(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// Validate loads a single config file on top of the defaults and checks the
// values the schema cannot express
func Validate(path string) (*ValidationResult, error) {
	result := &ValidationResult{
		Valid:  true,
		Errors: []ValidationError{},
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cfg, _, err := New().WithGlobalPath("").WithoutEnv().Load("", path)
	if err != nil {
		result.add("syntax", fmt.Sprintf("Failed to parse config: %v", err))
		return result, nil
	}

	ValidateConfig(cfg, result)
	return result, nil
}

// ValidateConfig checks a resolved config, appending problems to result
func ValidateConfig(cfg *Config, result *ValidationResult) {
	if cfg.Editor.TabSize < 1 {
		result.add("editor/tabSize", fmt.Sprintf("Tab size must be at least 1, got %d", cfg.Editor.TabSize))
	}

	if strings.TrimSpace(cfg.OpenAI.Engine) == "" {
		result.add("openAI/engine", "Engine is empty")
	}

	if cfg.OpenAI.Config.N < 1 {
		result.add("openAI/config/n", fmt.Sprintf("Number of alternatives must be at least 1, got %d", cfg.OpenAI.Config.N))
	}

	if cfg.OpenAI.Timeout < 0 {
		result.add("openAI/timeout", "Timeout cannot be negative")
	}

	if cfg.OpenAI.RequestsPerMinute < 0 {
		result.add("openAI/requestsPerMinute", "Requests per minute cannot be negative")
	}

	ids := make([]string, 0, len(cfg.Languages))
	for id := range cfg.Languages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		lang := cfg.Languages[id]
		start := strings.TrimSpace(lang.StartDocstringToken)
		end := strings.TrimSpace(lang.EndDocstringToken)
		if (start == "") != (end == "") {
			result.add("languages/"+id, "Start and end docstring tokens must be set together")
		}
		if strings.Contains(lang.StartDocstringToken, "\n") || strings.Contains(lang.EndDocstringToken, "\n") {
			result.add("languages/"+id, "Docstring tokens cannot contain newlines")
		}
	}
}
