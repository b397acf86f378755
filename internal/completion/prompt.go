package completion

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Instruction is the comment line asking the model for a docstring
const Instruction = "# An elaborate, high quality docstring for the above function:"

// DefaultTemplate renders the function text followed by the instruction and
// an opening triple quote. With few-shot enabled a documented example
// function for the language comes first.
const DefaultTemplate = `{{- with .Example }}{{ .Code | trim }}
{{ $.Instruction }}
"""{{ .Docstring | trimSuffix "\n" }}
"""

{{ end }}{{ .Text }}
{{ .Instruction }}
"""`

// PromptData is what a prompt template is executed with
type PromptData struct {
	Text        string
	LanguageID  string
	Instruction string
	Example     *Example
}

// Prompt renders prompts from a text/template with sprig functions
type Prompt struct {
	tmpl    *template.Template
	fewShot bool
}

// ParsePrompt compiles src (DefaultTemplate when empty)
func ParsePrompt(src string, fewShot bool) (*Prompt, error) {
	if strings.TrimSpace(src) == "" {
		src = DefaultTemplate
	}
	tmpl, err := template.New("prompt").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("invalid prompt template: %w", err)
	}
	return &Prompt{tmpl: tmpl, fewShot: fewShot}, nil
}

// Render builds the prompt for a function text
func (p *Prompt) Render(text, languageID string) (string, error) {
	data := PromptData{
		Text:        text,
		LanguageID:  languageID,
		Instruction: Instruction,
	}
	if p.fewShot {
		if ex, ok := ExampleFor(languageID); ok {
			data.Example = &ex
		}
	}

	var b strings.Builder
	if err := p.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}
