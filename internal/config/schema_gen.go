//go:build ignore

// Regenerates schema.json from annotated structs:
//
//	go run schema_gen.go schema.json
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
)

// SchemaConfig represents the root configuration for schema generation
type SchemaConfig struct {
	CodeLens  *CodeLens                 `json:"codeLens,omitempty" jsonschema:"description=Inline Generate action shown above functions"`
	OpenAI    *OpenAI                   `json:"openAI,omitempty" jsonschema:"description=Completion API settings"`
	Prompt    *Prompt                   `json:"prompt,omitempty"`
	Editor    *Editor                   `json:"editor,omitempty"`
	Languages map[string]LanguageConfig `json:"languages,omitempty" jsonschema:"description=Per-language docstring tokens keyed by language id"`
}

// CodeLens configures the Generate action
type CodeLens struct {
	Enabled       bool   `json:"enabled,omitempty" jsonschema:"description=Show the Generate action,default=true"`
	GenerateTitle string `json:"generateTitle,omitempty" jsonschema:"minLength=1,description=Title of the Generate action,default=Generate"`
}

// OpenAI configures the completion provider
type OpenAI struct {
	Engine            string            `json:"engine,omitempty" jsonschema:"minLength=1,description=Completion model,default=davinci-codex"`
	APIKey            string            `json:"apiKey,omitempty" jsonschema:"description=API key (prefer the OPENAI_API_KEY environment variable)"`
	BaseURL           string            `json:"baseURL,omitempty" jsonschema:"description=Base URL of an OpenAI-compatible API"`
	Config            *CompletionParams `json:"config,omitempty"`
	Timeout           string            `json:"timeout,omitempty" jsonschema:"pattern=^([0-9]+(\\.[0-9]+)?(ns|us|ms|s|m|h))+$,description=Request timeout as a Go duration (e.g. 30s)"`
	RequestsPerMinute int               `json:"requestsPerMinute,omitempty" jsonschema:"minimum=0,description=Client-side request limit (0 = unlimited)"`
	FewShot           bool              `json:"fewShot,omitempty" jsonschema:"description=Prepend a documented example function to the prompt"`
}

// CompletionParams are per-request knobs
type CompletionParams struct {
	N int `json:"n,omitempty" jsonschema:"minimum=1,description=Number of alternatives to generate,default=1"`
}

// Prompt holds the prompt template override
type Prompt struct {
	Template string `json:"template,omitempty" jsonschema:"description=Go text/template (with sprig functions) rendering the prompt"`
}

// Editor mirrors editor indentation options
type Editor struct {
	TabSize      int  `json:"tabSize,omitempty" jsonschema:"minimum=1,default=4"`
	InsertSpaces bool `json:"insertSpaces,omitempty" jsonschema:"default=true"`
}

// LanguageConfig holds docstring tokens for one language
type LanguageConfig struct {
	StartDocstringToken string   `json:"startDocstringToken,omitempty" jsonschema:"minLength=1,description=Token opening the docstring"`
	EndDocstringToken   string   `json:"endDocstringToken,omitempty" jsonschema:"minLength=1,description=Token closing the docstring"`
	StopTokens          []string `json:"stopTokens,omitempty" jsonschema:"maxItems=4,description=Sequences that stop the completion"`
}

func main() {
	r := &jsonschema.Reflector{
		DoNotReference:            false,
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}

	schema := r.Reflect(&SchemaConfig{})

	if languages, ok := schema.Properties.Get("languages"); ok {
		languages.PatternProperties = map[string]*jsonschema.Schema{
			"^[a-z][a-z0-9_+-]*$": languages.AdditionalProperties,
		}
		languages.AdditionalProperties = jsonschema.FalseSchema
	}

	// draft-07 for IDE compatibility
	schema.Version = "http://json-schema.org/draft-07/schema#"
	schema.ID = "https://raw.githubusercontent.com/NikitaCOEUR/doxide/main/schema/doxide.schema.json"
	schema.Title = "Doxide Configuration"
	schema.Description = "Configuration file for Doxide - docstrings generated from your functions"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling schema: %v\n", err)
		os.Exit(1)
	}

	outputPath := "schema.json"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing schema: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Schema generated: %s\n", outputPath)
}
