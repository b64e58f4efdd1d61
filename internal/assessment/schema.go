package assessment

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// definitionSchema is the JSON schema every catalog document must satisfy
// before the structural checks in validate.go run.
var definitionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id": map[string]any{
			"type":    "string",
			"pattern": "^[a-z][a-z0-9_-]*$",
		},
		"title":        map[string]any{"type": "string", "minLength": 1},
		"description":  map[string]any{"type": "string"},
		"version":      map[string]any{"type": "string", "pattern": "^v[0-9]+\\.[0-9]+\\.[0-9]+$"},
		"order":        map[string]any{"type": "integer"},
		"max_score":    map[string]any{"type": "integer", "minimum": 1},
		"recheck_days": map[string]any{"type": "integer", "minimum": 0},
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":   map[string]any{"type": "integer", "minimum": 1},
					"text": map[string]any{"type": "string", "minLength": 1},
					"options": map[string]any{
						"type":     "array",
						"minItems": 2,
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"value": map[string]any{"type": "integer", "minimum": 0},
								"text":  map[string]any{"type": "string", "minLength": 1},
							},
							"required":             []any{"value", "text"},
							"additionalProperties": false,
						},
					},
					"alert": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"min_value": map[string]any{"type": "integer", "minimum": 0},
							"message":   map[string]any{"type": "string", "minLength": 1},
						},
						"required":             []any{"min_value", "message"},
						"additionalProperties": false,
					},
				},
				"required":             []any{"id", "text", "options"},
				"additionalProperties": false,
			},
		},
		"scoring": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"direction": map[string]any{
					"type": "string",
					"enum": []any{string(HigherIsWorse), string(HigherIsBetter)},
				},
				"bands": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"level":          map[string]any{"type": "string", "minLength": 1},
							"label":          map[string]any{"type": "string", "minLength": 1},
							"max":            map[string]any{"type": "integer"},
							"min":            map[string]any{"type": "integer"},
							"description":    map[string]any{"type": "string"},
							"recommendation": map[string]any{"type": "string"},
						},
						"required":             []any{"level", "label"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []any{"direction", "bands"},
			"additionalProperties": false,
		},
	},
	"required":             []any{"id", "title", "version", "max_score", "questions", "scoring"},
	"additionalProperties": false,
}

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiledDefinitionSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		// jsonschema wants a parsed JSON value, so round-trip the Go map.
		raw, err := json.Marshal(definitionSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://assessment.json"
		if err := c.AddResource(url, parsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(url)
	})
	return compiledSchema, compileErr
}

// validateDocument checks a decoded catalog document against the schema.
// doc is any YAML- or JSON-decoded value; it is normalised through JSON so
// integer types match what the validator expects.
func validateDocument(name string, doc any) error {
	schema, err := compiledDefinitionSchema()
	if err != nil {
		return fmt.Errorf("compile assessment schema: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: encode document: %w", name, err)
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("%s: decode document: %w", name, err)
	}

	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("%s: schema validation failed: %w", name, err)
	}
	return nil
}
