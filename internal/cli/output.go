package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lettertwo/git-workon/internal/model"
)

// Recognized values for the --output flag on listing commands.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// resolveFormat reconciles --output with the global --json flag. An
// explicit --output wins; --json alone implies JSON.
func resolveFormat(output string) (string, error) {
	switch output {
	case "":
		if IsJSONOutput() {
			return outputJSON, nil
		}
		return outputText, nil
	case outputText, outputJSON, outputYAML:
		return output, nil
	default:
		return "", model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("invalid output format %q (valid: text, json, yaml)", output))
	}
}

// renderStructured writes v to stdout as JSON or YAML.
func renderStructured(format string, v interface{}) error {
	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	case outputYAML:
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("renderStructured called with format %q", format)
	}
}
