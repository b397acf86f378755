// Package lens turns document symbols into inline actions: a Generate lens
// above every function, and Previous/Next/Accept while alternatives for a
// generated docstring are pending.
package lens

import (
	"context"

	"github.com/NikitaCOEUR/doxide/internal/logger"
	"github.com/NikitaCOEUR/doxide/internal/symbols"
)

// Kind identifies what a lens does when clicked
type Kind string

// Lens kinds
const (
	Generate Kind = "generate"
	Previous Kind = "previous"
	Next     Kind = "next"
	Accept   Kind = "accept"
)

// Command identifiers an editor binds lens clicks to
const (
	GenerateCommand = "doxide.generateDocstring"
	PreviousCommand = "doxide.previousAlternative"
	NextCommand     = "doxide.nextAlternative"
	AcceptCommand   = "doxide.acceptAlternative"
)

// DefaultGenerateTitle is shown when no title is configured
const DefaultGenerateTitle = "Generate"

// Command is what runs when a resolved lens is clicked
type Command struct {
	Title     string `json:"title"`
	Tooltip   string `json:"tooltip"`
	Command   string `json:"command"`
	Arguments []any  `json:"arguments"`
}

// Lens is an action anchored to a line
type Lens struct {
	Kind  Kind          `json:"kind"`
	Range symbols.Range `json:"range"`
	// ContentRange is the function span a Generate lens documents
	ContentRange symbols.Range `json:"contentRange"`
	Symbol       string        `json:"symbol,omitempty"`
	Documented   bool          `json:"documented,omitempty"`
	Command      *Command      `json:"command,omitempty"`
}

// Options mirrors the codeLens config section
type Options struct {
	Enabled       bool
	GenerateTitle string
}

// Provider builds and resolves lenses for documents
type Provider struct {
	source symbols.DocumentSymbolSource
	opts   Options
	log    *logger.Logger
}

// NewProvider creates a lens provider over a symbol source
func NewProvider(source symbols.DocumentSymbolSource, opts Options, log *logger.Logger) *Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &Provider{source: source, opts: opts, log: log.WithComponent("lens")}
}

// Provide returns one unresolved Generate lens per function or method,
// walking nested symbols. It returns nothing when lenses are disabled or ctx
// is done.
func (p *Provider) Provide(ctx context.Context, doc symbols.Document) ([]Lens, error) {
	if !p.opts.Enabled || ctx.Err() != nil {
		return nil, nil
	}

	syms, err := p.source.Symbols(ctx, doc)
	if err != nil {
		return nil, err
	}

	var lenses []Lens
	for _, s := range symbols.Flatten(syms, symbols.Function, symbols.Method) {
		lenses = append(lenses, Lens{
			Kind:         Generate,
			Range:        symbols.Range{StartLine: s.SelectionLine, EndLine: s.SelectionLine},
			ContentRange: s.Range,
			Symbol:       s.Name,
			Documented:   s.Documented,
		})
	}

	p.log.Debug().Str("path", doc.Path).Int("lenses", len(lenses)).Msg("rendering lenses")
	return lenses, nil
}

// Resolve attaches the command to a lens. A Generate lens receives the
// function text and its start line as arguments. It returns false when
// lenses are disabled, ctx is done or the kind is unknown.
func (p *Provider) Resolve(ctx context.Context, l Lens, doc symbols.Document) (Lens, bool) {
	if !p.opts.Enabled || ctx.Err() != nil {
		return l, false
	}

	switch l.Kind {
	case Generate:
		title := p.opts.GenerateTitle
		if title == "" {
			title = DefaultGenerateTitle
		}
		l.Command = &Command{
			Title:     title,
			Tooltip:   "Generate a Docstring for this function.",
			Command:   GenerateCommand,
			Arguments: []any{doc.TextIn(l.ContentRange), l.Range.StartLine},
		}
	case Previous:
		l.Command = &Command{
			Title:     "Previous",
			Tooltip:   "View previous alternative.",
			Command:   PreviousCommand,
			Arguments: []any{},
		}
	case Next:
		l.Command = &Command{
			Title:     "Next",
			Tooltip:   "View next alternative.",
			Command:   NextCommand,
			Arguments: []any{},
		}
	case Accept:
		l.Command = &Command{
			Title:     "Accept",
			Tooltip:   "Accept current alternative",
			Command:   AcceptCommand,
			Arguments: []any{},
		}
	default:
		return l, false
	}
	return l, true
}

// ResolveAll resolves every lens, dropping the ones that cannot be resolved
func (p *Provider) ResolveAll(ctx context.Context, lenses []Lens, doc symbols.Document) []Lens {
	out := make([]Lens, 0, len(lenses))
	for _, l := range lenses {
		if resolved, ok := p.Resolve(ctx, l, doc); ok {
			out = append(out, resolved)
		}
	}
	return out
}

// AlternativeLenses returns the Previous, Next and Accept lenses shown on
// line while generated alternatives are pending
func AlternativeLenses(line int) []Lens {
	r := symbols.Range{StartLine: line, EndLine: line}
	return []Lens{
		{Kind: Previous, Range: r},
		{Kind: Next, Range: r},
		{Kind: Accept, Range: r},
	}
}
