// CUE schema validation for the tuning file.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaSource []byte

// ValidateWithCue checks a YAML tuning file against the embedded CUE
// schema before it is unmarshalled, so type and range mistakes surface
// with field-level messages instead of silent zero values.
func ValidateWithCue(configFile string) error {
	yamlBytes, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return validateBytes(yamlBytes, configFile)
}

func validateBytes(yamlBytes []byte, filename string) error {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSource)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, yamlBytes)
	if err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	val := ctx.BuildFile(file)
	if err := val.Err(); err != nil {
		return fmt.Errorf("build config value: %w", err)
	}

	unified := schema.Unify(val)
	if err := unified.Err(); err != nil {
		return fmt.Errorf("schema unify failed: %w", err)
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
