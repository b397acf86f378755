package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/doxide/internal/config"
	"github.com/NikitaCOEUR/doxide/internal/status"
	"github.com/NikitaCOEUR/doxide/internal/symbols"
	"github.com/NikitaCOEUR/doxide/pkg/version"
)

// StatusParams contains parameters for the Status command
type StatusParams struct {
	ConfigPath string
	CachePath  string
	// Dir is where project configuration is looked up; the working directory when empty
	Dir    string
	Stdout io.Writer
	// Loader replaces the default config loader
	Loader *config.Loader
}

// Status displays the resolved doxide configuration and pending alternatives
func Status(params StatusParams) error {
	out := params.Stdout
	if out == nil {
		out = os.Stdout
	}

	data, err := status.Collect(status.CollectOptions{
		Dir:             params.Dir,
		ExplicitConfig:  params.ConfigPath,
		CachePath:       params.CachePath,
		Version:         version.Version,
		Loader:          params.Loader,
		SymbolLanguages: symbols.NewRegistry().Languages(),
	})
	if err != nil {
		return fmt.Errorf("failed to collect status data: %w", err)
	}

	fmt.Fprintln(out, status.Render(data))
	return nil
}
