package config

import (
	"encoding/json"
	"fmt"
	"strings"

	invopop "github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator validates configuration documents against a JSON Schema
// generated from the Config type, so the schema can never drift from
// the structs.
type Validator struct {
	schema *santhosh.Schema
}

// NewValidator reflects the schema and compiles it.
func NewValidator() (*Validator, error) {
	reflector := &invopop.Reflector{}
	generated := reflector.Reflect(&Config{})

	schemaJSON, err := json.Marshal(generated)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generated schema: %w", err)
	}

	compiler := santhosh.NewCompiler()
	if err := compiler.AddResource("refactor.json", strings.NewReader(string(schemaJSON))); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile("refactor.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// Validate validates a configuration value against the schema. The value
// is round-tripped through JSON because the schema expects plain
// JSON-like objects.
func (v *Validator) Validate(configData interface{}) error {
	jsonData, err := json.Marshal(configData)
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON for validation: %w", err)
	}

	var dataToValidate interface{}
	if err := json.Unmarshal(jsonData, &dataToValidate); err != nil {
		return fmt.Errorf("failed to unmarshal JSON for validation: %w", err)
	}

	if err := v.schema.Validate(dataToValidate); err != nil {
		if validationErr, ok := err.(*santhosh.ValidationError); ok {
			var messages []string
			collectErrors(validationErr, &messages)
			return fmt.Errorf("schema validation failed:\n%s", strings.Join(messages, "\n"))
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}

// collectErrors flattens a validation error tree into leaf messages.
func collectErrors(err *santhosh.ValidationError, messages *[]string) {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		*messages = append(*messages, fmt.Sprintf("  - %s: %s", location, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}
