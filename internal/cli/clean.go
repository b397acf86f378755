package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/doxide/internal/cache"
	"github.com/NikitaCOEUR/doxide/internal/logger"
)

// CleanParams holds parameters for the Clean function
type CleanParams struct {
	CachePath string
	LogLevel  string
	All       bool
	// File drops the alternatives stored for a single source file
	File string
	// Dir scopes the default clean; the working directory when empty
	Dir    string
	Stdout io.Writer
}

// Clean removes stored alternatives
func Clean(params CleanParams) error {
	log := logger.New(params.LogLevel, nil).WithComponent("clean")
	out := params.Stdout
	if out == nil {
		out = os.Stdout
	}

	c, err := cache.New(params.CachePath)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	switch {
	case params.All:
		if err := c.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		log.Info().Msg("All cache entries cleared")
		fmt.Fprintln(out, "✓ All pending alternatives cleared")
	case params.File != "":
		if err := c.DeleteFile(params.File); err != nil {
			return fmt.Errorf("failed to clear cache for %s: %w", params.File, err)
		}
		log.Info().Str("file", params.File).Msg("Cache cleared for file")
		fmt.Fprintf(out, "✓ Pending alternatives cleared for %s\n", params.File)
	default:
		dir := params.Dir
		if dir == "" {
			currentDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			dir = currentDir
		}
		if err := c.DeleteUnder(dir); err != nil {
			return fmt.Errorf("failed to clear cache under %s: %w", dir, err)
		}
		log.Info().Str("dir", dir).Msg("Cache cleared for directory")
		fmt.Fprintf(out, "✓ Pending alternatives cleared under %s\n", dir)
	}

	return nil
}
