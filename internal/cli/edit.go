package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/NikitaCOEUR/doxide/internal/config"
)

// EditParams contains parameters for the Edit command
type EditParams struct {
	Global bool
	Dir    string
	Stdout io.Writer
}

// Edit opens the config file in the user's editor, creating it from the
// sample when missing
func Edit(params EditParams) error {
	out := params.Stdout
	if out == nil {
		out = os.Stdout
	}

	var configPath string
	if params.Global {
		globalPath, err := config.GetGlobalConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get global config path: %w", err)
		}
		configPath = globalPath
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	} else {
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
			configPath = filepath.Join(dir, config.SupportedConfigNames[0])
		}
	}

	editor := findEditor()
	if editor == "" {
		return fmt.Errorf("no editor found. Set $EDITOR or $VISUAL environment variable")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.WriteFile(configPath, []byte(sampleConfig), 0644); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		fmt.Fprintf(out, "Created new config: %s\n", configPath)
	} else {
		fmt.Fprintf(out, "Opening config: %s\n", configPath)
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// findConfigIn returns the first supported config file in dir
func findConfigIn(dir string) string {
	for _, name := range config.SupportedConfigNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func findEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	for _, e := range []string{"nano", "vim", "vi"} {
		if _, err := exec.LookPath(e); err == nil {
			return e
		}
	}
	return ""
}
