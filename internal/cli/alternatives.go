package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/NikitaCOEUR/doxide/internal/cache"
	"github.com/NikitaCOEUR/doxide/internal/derrors"
	"github.com/NikitaCOEUR/doxide/internal/editor"
	"github.com/NikitaCOEUR/doxide/internal/logger"
)

// AlternativeParams selects a stored set of alternatives
type AlternativeParams struct {
	Common
	File string
	// Line is the 1-based line of the function, as printed by generate
	Line int
}

func (p AlternativeParams) open() (*cache.Cache, string, error) {
	if p.Line < 1 {
		return nil, "", derrors.NewValidationError("line", "--line is required", nil)
	}
	abs, err := filepath.Abs(p.File)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve %s: %w", p.File, err)
	}
	c, err := cache.New(p.CachePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to initialize cache: %w", err)
	}
	return c, cache.Key(abs, p.Line-1), nil
}

// Next shows the following stored alternative
func Next(params AlternativeParams) error {
	return cycle(params, (*cache.Cache).Next)
}

// Previous shows the preceding stored alternative
func Previous(params AlternativeParams) error {
	return cycle(params, (*cache.Cache).Previous)
}

func cycle(params AlternativeParams, move func(*cache.Cache, string) (string, error)) error {
	c, key, err := params.open()
	if err != nil {
		return err
	}
	current, err := move(c, key)
	if err != nil {
		return err
	}
	entry, _ := c.Get(key)

	out := params.stdout()
	fmt.Fprint(out, current)
	fmt.Fprintf(out, "# [%d/%d]\n", entry.Index+1, len(entry.Alternatives))
	return nil
}

// Accept inserts the current alternative into the file and forgets the others
func Accept(params AlternativeParams) error {
	log := logger.New(params.LogLevel, nil).WithComponent("accept")

	c, key, err := params.open()
	if err != nil {
		return err
	}
	entry, found := c.Get(key)
	if !found {
		return derrors.NewNotFoundError(key, "no pending alternatives for "+key)
	}

	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", entry.Path, err)
	}
	if contentHash(string(data)) != entry.Hash {
		return derrors.NewValidationError("file", fmt.Sprintf("%s changed since the alternatives were generated, run generate again", entry.Path), nil)
	}

	docstring := entry.Current()
	updated := editor.Insert(string(data), entry.InsertLine, docstring)

	info, err := os.Stat(entry.Path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(entry.Path, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", entry.Path, err)
	}

	// The entry is dropped only once its docstring is on disk.
	if _, err := c.Accept(key); err != nil {
		return err
	}

	inserted := strings.Count(docstring, "\n")
	if err := c.Rebase(entry.Path, entry.InsertLine, inserted, contentHash(updated)); err != nil {
		return err
	}

	log.Info().Str("path", entry.Path).Int("line", entry.InsertLine+1).Msg("docstring accepted")
	fmt.Fprintf(params.stdout(), "✓ Inserted docstring at %s:%d\n", entry.Path, entry.InsertLine+1)
	return nil
}
