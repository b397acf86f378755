package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/doxide/internal/completion"
	"github.com/NikitaCOEUR/doxide/internal/config"
)

// ValidateParams contains parameters for the Validate command
type ValidateParams struct {
	// Path of the config file; the project config of Dir when empty
	Path   string
	Dir    string
	Stdout io.Writer
}

// Validate validates a doxide configuration file
func Validate(params ValidateParams) error {
	out := params.Stdout
	if out == nil {
		out = os.Stdout
	}

	configPath := params.Path
	if configPath == "" {
		dir := params.Dir
		if dir == "" {
			currentDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			dir = currentDir
		}
		configPath = findConfigIn(dir)
		if configPath == "" {
			return fmt.Errorf("no config file found in %s", dir)
		}
	}

	fmt.Fprintf(out, "Validating: %s\n\n", configPath)

	content, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := config.ValidateWithSchema(configPath, content)
	if err != nil {
		return err
	}

	// Semantic checks only make sense once the shape is right
	if result.Valid {
		customResult, err := config.Validate(configPath)
		if err != nil {
			return err
		}
		if !customResult.Valid {
			result.Valid = false
			result.Errors = append(result.Errors, customResult.Errors...)
		}
	}

	if result.Valid {
		if cfg, _, err := config.New().WithGlobalPath("").WithoutEnv().Load("", configPath); err == nil {
			if _, err := completion.ParsePrompt(cfg.Prompt.Template, cfg.OpenAI.FewShot); err != nil {
				result.Valid = false
				result.Errors = append(result.Errors, config.ValidationError{Field: "prompt/template", Message: err.Error()})
			}
		}
	}

	if result.Valid {
		fmt.Fprintln(out, "✅ Configuration is valid!")
		return nil
	}

	fmt.Fprintln(out, "❌ Configuration has errors:")
	for i, validationErr := range result.Errors {
		fmt.Fprintf(out, "%d. [%s] %s\n", i+1, validationErr.Field, validationErr.Message)
	}

	fmt.Fprintf(out, "\nFound %d error(s)\n", len(result.Errors))

	return fmt.Errorf("validation failed")
}
