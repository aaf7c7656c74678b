package content

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// poolSchema defines the JSON schema a pool file must satisfy before any
// item enters the engine.
var poolSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{"type": "string", "minLength": 1},
					"los": map[string]any{
						"type":     "array",
						"items":    map[string]any{"type": "string", "minLength": 1},
						"minItems": 1,
					},
					"difficulty": map[string]any{"type": "number"},
					"bloom":      map[string]any{"type": "string"},
					"evidence":   map[string]any{"type": "string"},
					"status": map[string]any{
						"type": "string",
						"enum": []any{"draft", "review", "published"},
					},
				},
				"required":             []any{"id", "los", "difficulty", "status"},
				"additionalProperties": false,
			},
		},
		"blueprints": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{"type": "string", "minLength": 1},
					"weights": map[string]any{
						"type":                 "object",
						"additionalProperties": map[string]any{"type": "number", "minimum": 0},
						"minProperties":        1,
					},
				},
				"required":             []any{"id", "weights"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"items"},
	"additionalProperties": false,
}

var (
	compileOnce  sync.Once
	compiled     *jsonschema.Schema
	compileError error
)

func compiledPoolSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		defBytes, err := json.Marshal(poolSchema)
		if err != nil {
			compileError = fmt.Errorf("marshal pool schema: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileError = fmt.Errorf("parse pool schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://item-pool.json", defParsed); err != nil {
			compileError = fmt.Errorf("add pool schema resource: %w", err)
			return
		}
		compiled, compileError = c.Compile("schema://item-pool.json")
	})
	return compiled, compileError
}

// Pool is a validated content pool: the engine-facing view of the external
// content store.
type Pool struct {
	Items      []Item      `json:"items"`
	Blueprints []Blueprint `json:"blueprints"`
}

// LoadPool reads and validates a pool JSON file.
func LoadPool(path string) (*Pool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool file: %w", err)
	}
	return ParsePool(raw)
}

// ParsePool validates raw pool JSON against the pool schema and decodes it.
func ParsePool(raw []byte) (*Pool, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid pool JSON: %w", err)
	}

	schema, err := compiledPoolSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("pool schema validation failed: %w", err)
	}

	var pool Pool
	if err := json.Unmarshal(raw, &pool); err != nil {
		return nil, fmt.Errorf("decode pool: %w", err)
	}
	return &pool, nil
}

// Blueprint returns the blueprint with the given id, or nil.
func (p *Pool) Blueprint(id string) *Blueprint {
	for i := range p.Blueprints {
		if p.Blueprints[i].ID == id {
			return &p.Blueprints[i]
		}
	}
	return nil
}

// Item returns the item with the given id, or nil.
func (p *Pool) Item(id string) *Item {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return &p.Items[i]
		}
	}
	return nil
}
