// Package schemaengine implements the two-sided parameter schema validation
// at the heart of template expansion: checking a declared schema's own
// internal invariants, comparing two schemas for equivalence, and merging
// caller-supplied values with declared defaults.
//
// Every public operation here aggregates every violation it finds into a
// single error rather than failing on the first one, so a template author
// sees the whole list of problems in one pass.
package schemaengine

import (
	"fmt"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/edgeforge/recipex/recipe"
	"github.com/edgeforge/recipex/xerrors"
)

// ValidateTransformerSchema enforces the per-field invariants a declared
// parameter schema must satisfy: a required field carries no default; an
// optional field carries a default whose runtime type matches the field's
// declared type.
func ValidateTransformerSchema(schema recipe.ParameterSchema) error {
	var violations []string

	for _, name := range sortedKeys(schema) {
		field := schema[name]
		switch {
		case field.Required && field.HasDefault:
			violations = append(violations, fmt.Sprintf("field %q is required but declares a defaultValue", name))
		case !field.Required && !field.HasDefault:
			violations = append(violations, fmt.Sprintf("field %q is optional but declares no defaultValue", name))
		case !field.Required && field.HasDefault:
			if got := TypeOf(field.DefaultValue); got != field.Type {
				violations = append(violations, fmt.Sprintf("field %q declares type %s but its defaultValue is of type %s", name, field.Type, got))
			}
		}
	}

	if len(violations) > 0 {
		return xerrors.TemplateAuthoringError(violations)
	}
	return nil
}

// CompareSchemas checks that a transformer artifact's declared schema and
// the schema mirrored in its template recipe agree key-for-key: same key
// set, and for every key the same (type, required, defaultValue) tuple.
func CompareSchemas(fromArtifact, fromRecipe recipe.ParameterSchema) error {
	var violations []string

	for _, name := range sortedKeys(fromArtifact) {
		recipeField, ok := fromRecipe[name]
		if !ok {
			violations = append(violations, fmt.Sprintf("field %q is declared by the transformer artifact but missing from the recipe schema", name))
			continue
		}
		if diff := fieldDiff(name, fromArtifact[name], recipeField); diff != "" {
			violations = append(violations, diff)
		}
	}
	for _, name := range sortedKeys(fromRecipe) {
		if _, ok := fromArtifact[name]; !ok {
			violations = append(violations, fmt.Sprintf("field %q is declared by the recipe schema but missing from the transformer artifact", name))
		}
	}

	if len(violations) > 0 {
		return xerrors.SchemaMismatchError(violations)
	}
	return nil
}

func fieldDiff(name string, a, r recipe.SchemaField) string {
	switch {
	case a.Type != r.Type:
		return fmt.Sprintf("field %q: artifact type %s disagrees with recipe type %s", name, a.Type, r.Type)
	case a.Required != r.Required:
		return fmt.Sprintf("field %q: artifact required=%v disagrees with recipe required=%v", name, a.Required, r.Required)
	case a.HasDefault != r.HasDefault:
		return fmt.Sprintf("field %q: artifact and recipe disagree on whether a defaultValue is present", name)
	case a.HasDefault && !valuesEqual(a.DefaultValue, r.DefaultValue):
		return fmt.Sprintf("field %q: artifact defaultValue %v disagrees with recipe defaultValue %v", name, a.DefaultValue, r.DefaultValue)
	default:
		return ""
	}
}

// Merge combines a declared schema with caller-supplied values: a value of
// the correct type from callerValues wins; an absent optional field falls
// back to its declared default; an absent required field, a caller value of
// the wrong type, or a caller key naming no schema field are all aggregated
// violations. Field name comparison is case-sensitive.
func Merge(schema recipe.ParameterSchema, callerValues map[string]any) (map[string]any, error) {
	var violations []string
	merged := make(map[string]any, len(schema))

	for _, name := range sortedKeys(schema) {
		field := schema[name]
		value, supplied := callerValues[name]
		switch {
		case supplied && TypeOf(value) == field.Type:
			merged[name] = value
		case supplied:
			violations = append(violations, fmt.Sprintf("field %q: caller supplied a value of type %s, schema declares %s", name, TypeOf(value), field.Type))
		case field.Required:
			violations = append(violations, fmt.Sprintf("field %q is required but no value was supplied", name))
		default:
			merged[name] = field.DefaultValue
		}
	}

	for key := range callerValues {
		if _, ok := schema[key]; !ok {
			violations = append(violations, fmt.Sprintf("caller supplied field %q which is not declared in the schema", key))
		}
	}

	if len(violations) > 0 {
		return nil, xerrors.RecipeTransformerErrorWithViolations(violations)
	}

	if err := validateAgainstJSONSchema(schema, merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// validateAgainstJSONSchema is a secondary, belt-and-suspenders structural
// check: it builds a jsonschema.Schema from the declared parameter schema
// and validates the merged parameter bag against it. The field-by-field
// checks above are authoritative; this only guards against a merge bug
// producing a document that disagrees with its own schema.
func validateAgainstJSONSchema(schema recipe.ParameterSchema, merged map[string]any) error {
	js := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(schema)),
	}
	for name, field := range schema {
		js.Properties[name] = &jsonschema.Schema{Type: jsonSchemaType(field.Type)}
		if field.Required {
			js.Required = append(js.Required, name)
		}
	}

	resolved, err := js.Resolve(nil)
	if err != nil {
		return xerrors.RecipeTransformerError("failed to compile parameter schema for structural validation", err)
	}
	if err := resolved.Validate(merged); err != nil {
		return xerrors.RecipeTransformerErrorWithViolations([]string{err.Error()})
	}
	return nil
}

func jsonSchemaType(t recipe.ValueType) string {
	switch t {
	case recipe.TypeString:
		return "string"
	case recipe.TypeNumber:
		return "number"
	case recipe.TypeObject:
		return "object"
	case recipe.TypeArray:
		return "array"
	case recipe.TypeBoolean:
		return "boolean"
	default:
		return "null"
	}
}

// TypeOf maps a dynamic value decoded from YAML or JSON to one of the
// schema's value kinds. Integral and floating-point values are both
// reported as number; an untyped nil is reported as null.
func TypeOf(value any) recipe.ValueType {
	switch value.(type) {
	case nil:
		return recipe.TypeNull
	case string:
		return recipe.TypeString
	case bool:
		return recipe.TypeBoolean
	case int, int32, int64, float32, float64:
		return recipe.TypeNumber
	case []any:
		return recipe.TypeArray
	case map[string]any:
		return recipe.TypeObject
	default:
		return recipe.TypeNull
	}
}

func valuesEqual(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func sortedKeys(schema recipe.ParameterSchema) []string {
	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
