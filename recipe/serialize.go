package recipe

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

//go:embed recipe-spec.yaml
var embeddedSpec []byte

var recipeSchema *openapi3.Schema

// schemaForValidation lazily loads and caches the embedded OpenAPI document's
// Recipe schema. It is loaded once: the spec is compiled into the binary, so
// there is nothing to watch for changes.
func schemaForValidation() (*openapi3.Schema, error) {
	if recipeSchema != nil {
		return recipeSchema, nil
	}

	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(embeddedSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded recipe OpenAPI spec: %w", err)
	}
	if err := spec.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("embedded recipe OpenAPI spec is invalid: %w", err)
	}

	schemaRef, ok := spec.Components.Schemas["Recipe"]
	if !ok {
		return nil, fmt.Errorf("Recipe schema not found in embedded OpenAPI spec")
	}
	recipeSchema = schemaRef.Value
	return recipeSchema, nil
}

// validateStructure checks a decoded recipe document against the embedded
// OpenAPI Recipe schema before it is unmarshaled into a typed Recipe. This
// catches authoring mistakes (wrong types, missing required keys) with a
// message grounded in the schema itself, ahead of the narrower invariant
// checks the loader and schemaengine packages perform afterward.
func validateStructure(doc map[string]any) error {
	schema, err := schemaForValidation()
	if err != nil {
		return err
	}

	normalized, err := jsonRoundTrip(doc)
	if err != nil {
		return err
	}
	return schema.VisitJSON(normalized)
}

// jsonRoundTrip converts a YAML-decoded value (which may contain
// map[string]any keys with non-string dynamic types) into the plain
// JSON-compatible shape openapi3.Schema.VisitJSON expects.
func jsonRoundTrip(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recipe document for validation: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe document for validation: %w", err)
	}
	return out, nil
}

// format identifies the on-disk encoding of a recipe file. YAML is the
// primary format; JSON is accepted as a secondary, equivalent encoding.
type format int

const (
	formatYAML format = iota
	formatJSON
)

func formatForPath(path string) (format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".json":
		return formatJSON, nil
	default:
		return 0, fmt.Errorf("unrecognized recipe file extension %q (want .yaml, .yml, or .json)", ext)
	}
}

// Parse decodes raw recipe bytes, chosen by path's extension, into a typed
// Recipe. The document is validated against the embedded OpenAPI schema
// before the typed decode, and any top-level keys this package doesn't know
// about are preserved for a later round-trip Serialize call.
func Parse(path string, data []byte) (*Recipe, error) {
	f, err := formatForPath(path)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	switch f {
	case formatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse recipe YAML %s: %w", path, err)
		}
	case formatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse recipe JSON %s: %w", path, err)
		}
	}

	if err := validateStructure(doc); err != nil {
		return nil, fmt.Errorf("recipe %s failed structural validation: %w", path, err)
	}

	var r Recipe
	switch f {
	case formatYAML:
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("failed to decode recipe %s: %w", path, err)
		}
	case formatJSON:
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("failed to decode recipe %s: %w", path, err)
		}
	}

	r.raw = rawExtensionKeys(doc)
	r.sourceFormat = f
	return &r, nil
}

// knownTopLevelKeys mirrors Recipe's yaml/json tags, used to find any keys a
// recipe document carries that this package doesn't model.
var knownTopLevelKeys = map[string]bool{
	"formatVersion":   true,
	"name":            true,
	"version":         true,
	"description":     true,
	"type":            true,
	"dependencies":    true,
	"manifests":       true,
	"lifecycle":       true,
	"parameterSchema": true,
	"configuration":   true,
}

func rawExtensionKeys(doc map[string]any) map[string]any {
	extra := make(map[string]any)
	for k, v := range doc {
		if !knownTopLevelKeys[k] {
			extra[k] = v
		}
	}
	if len(extra) == 0 {
		return nil
	}
	return extra
}

// Serialize encodes r using the format implied by path's extension,
// re-emitting any unrecognized top-level keys captured on the way in by
// Parse so round-tripping a document never silently drops vendor extensions.
func Serialize(path string, r *Recipe) ([]byte, error) {
	f, err := formatForPath(path)
	if err != nil {
		return nil, err
	}

	var body []byte
	switch f {
	case formatYAML:
		body, err = yaml.Marshal(r)
	case formatJSON:
		body, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode recipe: %w", err)
	}

	if len(r.raw) == 0 {
		return body, nil
	}

	var merged map[string]any
	switch f {
	case formatYAML:
		if err := yaml.Unmarshal(body, &merged); err != nil {
			return nil, err
		}
		for k, v := range r.raw {
			merged[k] = v
		}
		return yaml.Marshal(merged)
	case formatJSON:
		if err := json.Unmarshal(body, &merged); err != nil {
			return nil, err
		}
		for k, v := range r.raw {
			merged[k] = v
		}
		return json.MarshalIndent(merged, "", "  ")
	}
	return body, nil
}
