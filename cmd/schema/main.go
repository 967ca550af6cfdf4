package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iancoleman/orderedmap"
	"github.com/invopop/jsonschema"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "schemas/resolution.schema.json", "path to write the JSON schema")
	flag.Parse()

	if err := writeSchema(outPath, buildSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

// buildSchema constructs the invocation record schema. The document is
// assembled by hand rather than reflected so the enum and const
// constraints stay part of the generator: the committed
// schemas/resolution.schema.json must always be reproducible from this
// function, which TestBuildSchemaMatchesCommittedFile enforces.
func buildSchema() *jsonschema.Schema {
	entityRef := &jsonschema.Schema{
		Type: "object",
		Properties: properties(
			prop{"id", &jsonschema.Schema{Type: "string"}},
			prop{"kind", &jsonschema.Schema{
				Type: "string",
				Enum: []any{"unknown", "player", "unit", "gameobject", "engine"},
			}},
		),
		Required: []string{"id", "kind"},
	}

	point := &jsonschema.Schema{
		Type: "object",
		Properties: properties(
			prop{"x", &jsonschema.Schema{Type: "number"}},
			prop{"y", &jsonschema.Schema{Type: "number"}},
			prop{"z", &jsonschema.Schema{Type: "number"}},
		),
		Required: []string{"x", "y", "z"},
	}

	candidate := &jsonschema.Schema{
		Type: "object",
		Properties: properties(
			prop{"identity", &jsonschema.Schema{Type: "string"}},
			prop{"templateId", &jsonschema.Schema{Type: "integer"}},
			prop{"category", &jsonschema.Schema{
				Type: "string",
				Enum: []any{"unit", "gameobject"},
			}},
			prop{"position", &jsonschema.Schema{Ref: "#/$defs/point"}},
			prop{"alive", &jsonschema.Schema{Type: "boolean"}},
			prop{"lootable", &jsonschema.Schema{Type: "boolean"}},
			prop{"skinnable", &jsonschema.Schema{Type: "boolean"}},
			prop{"summonedByPlayer", &jsonschema.Schema{Type: "boolean"}},
			prop{"distance", &jsonschema.Schema{Type: "number"}},
			prop{"tier", &jsonschema.Schema{Type: "integer", Maximum: 4, Minimum: 1}},
			prop{"rejected", &jsonschema.Schema{
				Type: "string",
				Enum: []any{"blacklisted", "out_of_range", "player_summoned", "not_interactable"},
			}},
		),
		Required: []string{"identity", "templateId", "category", "position", "distance"},
	}

	invocationPayload := &jsonschema.Schema{
		Type: "object",
		Properties: properties(
			prop{"autoloot", &jsonschema.Schema{Type: "boolean"}},
			prop{"inWorld", &jsonschema.Schema{Type: "boolean"}},
			prop{"player", &jsonschema.Schema{Ref: "#/$defs/point"}},
			prop{"considered", &jsonschema.Schema{Type: "integer"}},
			prop{"candidates", &jsonschema.Schema{
				Type:  "array",
				Items: &jsonschema.Schema{Ref: "#/$defs/candidate"},
			}},
			prop{"selectedId", &jsonschema.Schema{Type: "string"}},
			prop{"tier", &jsonschema.Schema{Type: "integer", Maximum: 4, Minimum: 1}},
			prop{"action", &jsonschema.Schema{
				Type: "string",
				Enum: []any{"open_loot", "use_game_object", "skin", "gossip"},
			}},
			prop{"distance", &jsonschema.Schema{Type: "number"}},
			prop{"outcome", &jsonschema.Schema{
				Type: "string",
				Enum: []any{"dispatched", "no_candidate", "dispatch_failed", "provider_failed", "not_in_world"},
			}},
		),
		Required: []string{"autoloot", "inWorld", "player", "considered", "outcome"},
	}

	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Interact Resolution Record",
		Description: "Validates resolution.invocation lines in the diagnostics NDJSON log.",
		Type:        "object",
		Properties: properties(
			prop{"type", &jsonschema.Schema{Const: "resolution.invocation"}},
			prop{"invocation", &jsonschema.Schema{Type: "integer"}},
			prop{"time", &jsonschema.Schema{Type: "string"}},
			prop{"actor", &jsonschema.Schema{Ref: "#/$defs/entityRef"}},
			prop{"targets", &jsonschema.Schema{
				Type:  "array",
				Items: &jsonschema.Schema{Ref: "#/$defs/entityRef"},
			}},
			prop{"severity", &jsonschema.Schema{Type: "integer", Enum: []any{0, 1, 2, 3}}},
			prop{"category", &jsonschema.Schema{Type: "string"}},
			prop{"payload", &jsonschema.Schema{Ref: "#/$defs/invocationPayload"}},
			prop{"extra", &jsonschema.Schema{Type: "object"}},
		),
		Required: []string{"type", "invocation", "time", "actor", "severity", "payload"},
		Definitions: jsonschema.Definitions{
			"entityRef":         entityRef,
			"point":             point,
			"candidate":         candidate,
			"invocationPayload": invocationPayload,
		},
	}
}

type prop struct {
	name   string
	schema *jsonschema.Schema
}

func properties(props ...prop) *orderedmap.OrderedMap {
	om := orderedmap.New()
	for _, p := range props {
		om.Set(p.name, p.schema)
	}
	return om
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
