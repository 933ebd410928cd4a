// Package schema validates WriteParameter request bodies arriving from the
// HTTP surface against the wire width the target parameter declares, before
// the request ever reaches the deconz client. The MCP surface does not use
// this package.
package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/go-deconz/deconz-sp/pkg/deconz"
)

// Validator validates WriteParameter request bodies. It caches one compiled
// schema per ParameterCode, since the same small, closed set of parameters
// (deconz.AllParameterCodes) is validated against on every request; unlike
// a generic JSON Schema validator there is no need to key the cache off the
// schema's own bytes, the parameter code already is the key.
type Validator struct {
	mu    sync.RWMutex
	cache map[deconz.ParameterCode]*jsonschema.Schema
}

// NewValidator creates a Validator with an empty cache.
func NewValidator() *Validator {
	return &Validator{
		cache: make(map[deconz.ParameterCode]*jsonschema.Schema),
	}
}

// ValidateWriteParameter checks body against the JSON Schema for a
// WriteParameter request targeting parameter: a single required "value"
// field, bounded to what the parameter's declared wire width can hold.
// Returns nil if valid, or an error describing the validation failure.
func (v *Validator) ValidateWriteParameter(parameter deconz.ParameterCode, body map[string]any) error {
	compiled, err := v.compile(parameter)
	if err != nil {
		return fmt.Errorf("failed to compile schema for %s: %w", parameter, err)
	}
	return compiled.Validate(body)
}

func (v *Validator) compile(parameter deconz.ParameterCode) (*jsonschema.Schema, error) {
	v.mu.RLock()
	if s, ok := v.cache[parameter]; ok {
		v.mu.RUnlock()
		return s, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.cache[parameter]; ok {
		return s, nil
	}

	schemaDoc, err := writeParameterSchemaDoc(parameter)
	if err != nil {
		return nil, err
	}

	var schemaMap any
	if err := json.Unmarshal(schemaDoc, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaMap); err != nil {
		return nil, fmt.Errorf("failed to add resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}

	v.cache[parameter] = compiled
	return compiled, nil
}

// writeParameterSchemaDoc builds the JSON Schema document a WriteParameter
// request body must satisfy for the given parameter.
func writeParameterSchemaDoc(parameter deconz.ParameterCode) (json.RawMessage, error) {
	width, ok := parameter.Len()
	if !ok {
		return nil, fmt.Errorf("unknown parameter: %s", parameter)
	}

	max := uint64(1)<<(8*width) - 1
	doc := map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			"value": map[string]any{
				"type":    "integer",
				"minimum": 0,
				"maximum": max,
			},
		},
		"required":             []string{"value"},
		"additionalProperties": false,
	}

	return json.Marshal(doc)
}
