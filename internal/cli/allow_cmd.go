package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/NikitaCOEUR/doxide/internal/config"
	"github.com/NikitaCOEUR/doxide/internal/derrors"
	"github.com/NikitaCOEUR/doxide/internal/logger"
	"github.com/NikitaCOEUR/doxide/internal/trust"
)

// TrustParams contains parameters for the Allow, Revoke and Trusted commands
type TrustParams struct {
	TrustPath string
	LogLevel  string
	// Dir selects the project config; the working directory when empty
	Dir    string
	Stdout io.Writer
}

func (p TrustParams) stdout() io.Writer {
	if p.Stdout == nil {
		return os.Stdout
	}
	return p.Stdout
}

// projectConfig returns the config file governing Dir
func (p TrustParams) projectConfig() (string, error) {
	dir := p.Dir
	if dir == "" {
		currentDir, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = currentDir
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	configPath := config.FindProjectConfig(abs)
	if configPath == "" {
		return "", derrors.NewNotFoundError(abs, "no project config found for "+abs)
	}
	return configPath, nil
}

// Allow trusts the project config of a directory with its current settings
func Allow(params TrustParams) error {
	log := logger.New(params.LogLevel, nil).WithComponent("trust")

	configPath, err := params.projectConfig()
	if err != nil {
		return err
	}
	settings, err := config.SensitiveSettings(configPath)
	if err != nil {
		return err
	}
	store, err := trust.New(params.TrustPath)
	if err != nil {
		return err
	}
	if err := store.Allow(configPath, settings); err != nil {
		return fmt.Errorf("failed to trust %s: %w", configPath, err)
	}

	log.Info().Str("config", configPath).Int("settings", len(settings)).Msg("config trusted")
	out := params.stdout()
	fmt.Fprintf(out, "✓ Trusted %s\n", configPath)
	for _, key := range config.SensitiveKeys {
		if value, ok := settings[key]; ok {
			if key == "openAI.apiKey" {
				value = "(set)"
			}
			fmt.Fprintf(out, "  %s: %s\n", key, value)
		}
	}
	return nil
}

// Revoke withdraws trust from the project config of a directory
func Revoke(params TrustParams) error {
	configPath, err := params.projectConfig()
	if err != nil {
		return err
	}
	store, err := trust.New(params.TrustPath)
	if err != nil {
		return err
	}
	if err := store.Revoke(configPath); err != nil {
		return err
	}
	fmt.Fprintf(params.stdout(), "✓ Revoked %s\n", configPath)
	return nil
}

// Trusted lists trusted project configs
func Trusted(params TrustParams) error {
	store, err := trust.New(params.TrustPath)
	if err != nil {
		return err
	}
	out := params.stdout()
	list := store.List()
	if len(list) == 0 {
		fmt.Fprintln(out, "No trusted project configs")
		return nil
	}
	for _, path := range list {
		fmt.Fprintln(out, path)
	}
	return nil
}
