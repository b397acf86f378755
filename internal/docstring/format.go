// Package docstring turns a raw completion into a docstring ready to be
// inserted above or inside a function body.
//
// Formatting is a pure function of its inputs: the function text used to
// produce the completion, the completion itself, a language id and an
// immutable Settings record. It never fails.
package docstring

// DefaultToken is used for any delimiter a language does not configure.
const DefaultToken = "'''"

// Delimiters are the tokens that open and close a docstring.
type Delimiters struct {
	Start string `json:"start" koanf:"startDocstringToken"`
	End   string `json:"end" koanf:"endDocstringToken"`
}

// DefaultDelimiters returns the triple-quote pair.
func DefaultDelimiters() Delimiters {
	return Delimiters{Start: DefaultToken, End: DefaultToken}
}

// Settings is the configuration snapshot a Format call works from.
type Settings struct {
	Indent    IndentUnit
	languages map[string]Delimiters
}

// NewSettings copies languages so later changes to the map do not leak into
// formatting.
func NewSettings(indent IndentUnit, languages map[string]Delimiters) Settings {
	copied := make(map[string]Delimiters, len(languages))
	for id, d := range languages {
		copied[id] = d
	}
	return Settings{Indent: indent, languages: copied}
}

// Delimiters resolves the token pair for languageID. Missing languages, and
// empty tokens of configured ones, fall back to DefaultToken.
func (s Settings) Delimiters(languageID string) Delimiters {
	d, ok := s.languages[languageID]
	if !ok {
		return DefaultDelimiters()
	}
	if d.Start == "" {
		d.Start = DefaultToken
	}
	if d.End == "" {
		d.End = DefaultToken
	}
	return d
}

// Languages returns the configured language ids' delimiters.
func (s Settings) Languages() map[string]Delimiters {
	out := make(map[string]Delimiters, len(s.languages))
	for id, d := range s.languages {
		out[id] = d
	}
	return out
}

// Format re-indents completion to the body indentation of source and wraps it
// in the delimiters configured for languageID:
//
//	indent + start + completion (re-indented) + "\n" + indent + end + "\n"
func Format(source, completion, languageID string, settings Settings) string {
	unit := settings.Indent
	if unit.width == 0 {
		unit = Spaces(4)
	}
	prefix := unit.Repeat(DetectLevel(source, unit))
	tokens := settings.Delimiters(languageID)

	return prefix + tokens.Start +
		Reindent(completion, prefix) +
		"\n" + prefix + tokens.End + "\n"
}
