package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://roster.json"

// schemaDefinition describes the on-disk roster file.
var schemaDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"version": map[string]any{"type": "integer", "minimum": 1},
		"skills": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"skillId":         map[string]any{"type": "string", "minLength": 1},
					"name":            map[string]any{"type": "string", "maxLength": MaxNameLength},
					"order":           map[string]any{"type": "integer", "minimum": 0},
					"durationMinutes": map[string]any{"type": "number", "minimum": 0, "maximum": MaxDurationMinutes},
				},
				"required":             []any{"skillId", "durationMinutes"},
				"additionalProperties": false,
			},
		},
	},
	"required": []any{"skills"},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func rosterSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, not Go maps with typed slices.
		defBytes, err := json.Marshal(schemaDefinition)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Validate checks raw roster JSON against the roster schema and the rules
// the schema cannot express (unique skill ids).
func Validate(raw []byte) error {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidRoster{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	sch, err := rosterSchema()
	if err != nil {
		return &ErrInvalidRoster{Content: raw, Err: fmt.Errorf("compile schema: %w", err)}
	}

	if err := sch.Validate(parsed); err != nil {
		return &ErrInvalidRoster{Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var r Roster
	if err := json.Unmarshal(raw, &r); err != nil {
		return &ErrInvalidRoster{Content: raw, Err: err}
	}
	seen := make(map[string]bool, len(r.Skills))
	for _, s := range r.Skills {
		if seen[s.SkillID] {
			return &ErrInvalidRoster{Content: raw, Err: fmt.Errorf("duplicate skill id %q", s.SkillID)}
		}
		seen[s.SkillID] = true
	}
	return nil
}
