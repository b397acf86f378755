package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/NikitaCOEUR/doxide/internal/docstring"
	"github.com/NikitaCOEUR/doxide/internal/logger"
	"github.com/NikitaCOEUR/doxide/internal/symbols"
)

// FormatParams contains parameters for the Format command
type FormatParams struct {
	Common
	// Lang is the language id; detected from SourcePath when empty
	Lang string
	// SourcePath holds the function text the completion documents
	SourcePath string
	// TabSize and Tabs override the configured indentation when set
	TabSize int
	Tabs    bool
	Stdin   io.Reader
}

// Format wraps a raw completion read from stdin as a docstring for the
// function in SourcePath, without calling any API
func Format(params FormatParams) (string, error) {
	log := logger.New(params.LogLevel, nil).WithComponent("format")

	dir := "."
	var source string
	if params.SourcePath != "" {
		data, err := os.ReadFile(params.SourcePath)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", params.SourcePath, err)
		}
		source = string(data)
		dir = filepath.Dir(params.SourcePath)
	}

	lang := params.Lang
	if lang == "" && params.SourcePath != "" {
		lang = symbols.DetectLanguage(params.SourcePath)
	}

	cfg, _, err := loadConfig(params.Common, dir, log)
	if err != nil {
		return "", err
	}
	settings := cfg.FormatterSettings()
	switch {
	case params.Tabs:
		settings = docstring.NewSettings(docstring.Tab(), settings.Languages())
	case params.TabSize > 0:
		settings = docstring.NewSettings(docstring.Spaces(params.TabSize), settings.Languages())
	}

	stdin := params.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read completion from stdin: %w", err)
	}
	// the terminating newline of piped input is not part of the completion
	rawCompletion := strings.TrimSuffix(strings.TrimSuffix(string(raw), "\n"), "\r")

	log.Debug().Str("lang", lang).Str("indent", settings.Indent.String()).Msg("formatting completion")
	formatted := docstring.Format(source, rawCompletion, lang, settings)
	fmt.Fprint(params.stdout(), formatted)
	return formatted, nil
}
