package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/NikitaCOEUR/doxide/internal/cache"
	"github.com/NikitaCOEUR/doxide/internal/completion"
	"github.com/NikitaCOEUR/doxide/internal/derrors"
	"github.com/NikitaCOEUR/doxide/internal/docstring"
	"github.com/NikitaCOEUR/doxide/internal/editor"
	"github.com/NikitaCOEUR/doxide/internal/symbols"
	"github.com/NikitaCOEUR/doxide/internal/timing"
	"github.com/NikitaCOEUR/doxide/internal/trace"
	"github.com/NikitaCOEUR/doxide/pkg/version"
)

// DefaultJobs bounds concurrent completion requests for --all
const DefaultJobs = 4

// GenerateParams contains parameters for the Generate command
type GenerateParams struct {
	Common
	File string
	// Line is 1-based and may point anywhere inside the function
	Line int
	// All documents every function that has no docstring yet
	All bool
	// Force includes functions that already have one
	Force bool
	Write bool
	JSON  bool
	Jobs  int
}

// Generated is the docstring produced for one function
type Generated struct {
	Symbol string `json:"symbol"`
	// Line and InsertLine are 1-based
	Line         int      `json:"line"`
	InsertLine   int      `json:"insertLine"`
	Docstring    string   `json:"docstring"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// Generate completes and formats docstrings for the selected functions of a
// file, then prints them, stores their alternatives or writes them in place
func Generate(ctx context.Context, params GenerateParams) ([]Generated, error) {
	doc, err := loadDocument(params.File)
	if err != nil {
		return nil, err
	}

	comps, err := initializeComponents(params.Common, filepath.Dir(doc.Path))
	if err != nil {
		return nil, err
	}
	log := comps.log.WithComponent("generate")
	timer := timing.NewTimer()

	endSymbols := trace.Region(ctx, "symbols")
	stop := timer.Track("symbols")
	syms, err := comps.registry.Symbols(ctx, doc)
	stop()
	endSymbols()
	if err != nil {
		return nil, err
	}

	targets, err := selectTargets(doc, syms, params)
	if err != nil {
		return nil, err
	}
	out := params.stdout()
	if len(targets) == 0 {
		fmt.Fprintln(out, "✓ Every function is already documented")
		return nil, nil
	}

	jobs := params.Jobs
	if jobs < 1 {
		jobs = DefaultJobs
	}
	settings := comps.config.FormatterSettings()
	results := make([]Generated, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, sym := range targets {
		g.Go(func() error {
			tctx, endTask := trace.Task(gctx, "docstring")
			defer endTask()
			trace.Log(tctx, "symbol", sym.Name)

			text := doc.TextIn(sym.Range)
			stop := timer.Track("completion")
			endCompletion := trace.Region(tctx, "completion")
			raw, err := comps.provider.Complete(tctx, completion.Request{Text: text, LanguageID: doc.LanguageID})
			endCompletion()
			stop()
			if err == nil && len(raw) == 0 {
				err = derrors.NewCompletionError("", "empty response from completion provider", nil)
			}
			if err != nil {
				return fmt.Errorf("%s (line %d): %w", sym.Name, sym.SelectionLine+1, err)
			}

			stop = timer.Track("format")
			alternatives := make([]string, len(raw))
			for j, completionText := range raw {
				alternatives[j] = docstring.Format(text, completionText, doc.LanguageID, settings)
			}
			stop()

			results[i] = Generated{
				Symbol:     sym.Name,
				Line:       sym.SelectionLine + 1,
				InsertLine: editor.InsertionLine(doc.LanguageID, sym.SelectionLine) + 1,
				Docstring:  alternatives[0],
			}
			if len(alternatives) > 1 {
				results[i].Alternatives = alternatives
			}
			log.Debug().Str("symbol", sym.Name).Int("alternatives", len(alternatives)).Msg("docstring generated")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if params.Write {
		stop := timer.Track("write")
		err := writeResults(comps, doc, results)
		stop()
		if err != nil {
			return nil, err
		}
	} else if err := storeAlternatives(comps, doc, results); err != nil {
		return nil, err
	}

	log.Debug().Str("timing", timer.Summary()).Msg("generate finished")

	if params.JSON {
		return results, printJSON(out, results)
	}
	printGenerated(out, doc, results, params.Write)
	return results, nil
}

func selectTargets(doc symbols.Document, syms []symbols.Symbol, params GenerateParams) ([]symbols.Symbol, error) {
	if params.All {
		var targets []symbols.Symbol
		for _, s := range symbols.Flatten(syms, symbols.Function, symbols.Method) {
			if params.Force || !s.Documented {
				targets = append(targets, s)
			}
		}
		return targets, nil
	}

	if params.Line < 1 {
		return nil, derrors.NewValidationError("line", "either --line or --all is required", nil)
	}
	s, ok := symbols.FunctionAt(syms, params.Line-1)
	if !ok {
		return nil, derrors.NewNoFunctionError(doc.Path, params.Line-1)
	}
	return []symbols.Symbol{s}, nil
}

func writeResults(comps *components, doc symbols.Document, results []Generated) error {
	edits := make([]editor.Edit, len(results))
	for i, r := range results {
		edits[i] = editor.Edit{Line: r.InsertLine - 1, Docstring: r.Docstring}
	}
	if err := editor.ApplyAllToFile(doc.Path, edits); err != nil {
		return fmt.Errorf("failed to write %s: %w", doc.Path, err)
	}
	// line numbers moved, stored alternatives for this file no longer apply
	if comps.cache != nil {
		return comps.cache.DeleteFile(doc.Path)
	}
	return nil
}

func storeAlternatives(comps *components, doc symbols.Document, results []Generated) error {
	if comps.cache == nil {
		return nil
	}
	hash := contentHash(doc.Text)
	for _, r := range results {
		if len(r.Alternatives) < 2 {
			continue
		}
		err := comps.cache.Set(&cache.Entry{
			Path:         doc.Path,
			Line:         r.Line - 1,
			LanguageID:   doc.LanguageID,
			InsertLine:   r.InsertLine - 1,
			Alternatives: r.Alternatives,
			Hash:         hash,
			Version:      version.Version,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func printGenerated(out io.Writer, doc symbols.Document, results []Generated, written bool) {
	if written {
		fmt.Fprintf(out, "✓ Inserted %d docstring(s) into %s\n", len(results), doc.Path)
		return
	}
	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "# %s (line %d)\n", r.Symbol, r.Line)
		}
		fmt.Fprint(out, r.Docstring)
		if n := len(r.Alternatives); n > 1 {
			fmt.Fprintf(out, "# [1/%d] 'doxide next %s --line %d' to cycle, 'doxide accept' to insert\n", n, doc.Path, r.Line)
		}
	}
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
