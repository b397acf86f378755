package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/NikitaCOEUR/doxide/internal/lens"
)

// LensParams contains parameters for the Lens command
type LensParams struct {
	Common
	File string
	JSON bool
}

// Lens lists the resolved lenses of a file: a Generate lens per function and
// the Previous/Next/Accept trio wherever alternatives are pending
func Lens(ctx context.Context, params LensParams) ([]lens.Lens, error) {
	doc, err := loadDocument(params.File)
	if err != nil {
		return nil, err
	}
	comps, err := initializeComponents(params.Common, filepath.Dir(doc.Path))
	if err != nil {
		return nil, err
	}

	lenses, err := comps.lenses.Provide(ctx, doc)
	if err != nil {
		return nil, err
	}
	if comps.cache != nil {
		hash := contentHash(doc.Text)
		for _, entry := range comps.cache.Entries() {
			if entry.Path == doc.Path && entry.Hash == hash {
				lenses = append(lenses, lens.AlternativeLenses(entry.Line)...)
			}
		}
	}
	resolved := comps.lenses.ResolveAll(ctx, lenses, doc)

	out := params.stdout()
	if params.JSON {
		if resolved == nil {
			resolved = []lens.Lens{}
		}
		return resolved, printJSON(out, resolved)
	}

	if len(resolved) == 0 {
		fmt.Fprintln(out, "No lenses")
		return resolved, nil
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("LINE", "ACTION", "SYMBOL", "COMMAND")
	for _, l := range resolved {
		symbol := l.Symbol
		if l.Documented {
			symbol += " (documented)"
		}
		t.Row(strconv.Itoa(l.Range.StartLine+1), l.Command.Title, symbol, l.Command.Command)
	}
	fmt.Fprintln(out, t.Render())
	return resolved, nil
}
