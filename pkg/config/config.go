// Package config provides configuration loading for modresolve.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/mpyw/modresolve/internal"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "modresolve.yaml"

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed schema.json
var schemaJSON []byte

// Parsed at init time - failure here means corrupted embedded files.
var configSchema *jsonschema.Schema

func init() {
	// Defaults must satisfy the schema like any user file
	var raw any
	internal.Must(struct{}{}, yaml.Unmarshal(defaultsYAML, &raw))

	schemaDoc := internal.Must(jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON)))
	compiler := jsonschema.NewCompiler()
	internal.Must(struct{}{}, compiler.AddResource("schema.json", schemaDoc))
	configSchema = internal.Must(compiler.Compile("schema.json"))

	internal.Must(struct{}{}, validateSchema(raw))
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	internal.Must(struct{}{}, yaml.Unmarshal(defaultsYAML, &cfg))
	return &cfg
}

// LoadConfig loads a configuration file on top of the built-in defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses configuration YAML on top of the built-in defaults.
func Parse(data []byte) (*Config, error) {
	// Parse YAML to generic interface for schema validation
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// An empty document is a valid config with every default
	if raw != nil {
		if err := validateSchema(raw); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.SetDefaults()
	return cfg, nil
}

// validateSchema validates data against the embedded JSON Schema.
func validateSchema(data any) error {
	return configSchema.Validate(data)
}
