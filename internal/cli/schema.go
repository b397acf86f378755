package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/doxide/internal/config"
)

// Schema displays or exports the JSON Schema for doxide configuration files
func Schema(outputPath string, stdout io.Writer) error {
	if stdout == nil {
		stdout = os.Stdout
	}
	schemaJSON := config.GetSchemaJSON()

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(schemaJSON), 0644); err != nil {
			return fmt.Errorf("failed to write schema to %s: %w", outputPath, err)
		}
		fmt.Fprintf(stdout, "JSON Schema written to: %s\n", outputPath)
		return nil
	}

	fmt.Fprintln(stdout, schemaJSON)
	return nil
}
