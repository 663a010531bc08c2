package schemaengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeforge/recipex/recipe"
)

func schema(fields map[string]recipe.SchemaField) recipe.ParameterSchema {
	return recipe.ParameterSchema(fields)
}

func TestValidateTransformerSchemaOK(t *testing.T) {
	s := schema(map[string]recipe.SchemaField{
		"intervalInSecs": {Type: recipe.TypeNumber, Required: true},
		"timestamp":      {Type: recipe.TypeBoolean, Required: false, DefaultValue: false, HasDefault: true},
		"message":        {Type: recipe.TypeString, Required: false, DefaultValue: "Ping pong", HasDefault: true},
	})
	require.NoError(t, ValidateTransformerSchema(s))
}

func TestValidateTransformerSchemaAggregatesViolations(t *testing.T) {
	s := schema(map[string]recipe.SchemaField{
		"a": {Type: recipe.TypeNumber, Required: true, DefaultValue: 3, HasDefault: true},
		"b": {Type: recipe.TypeString, Required: false, HasDefault: false},
		"c": {Type: recipe.TypeBoolean, Required: false, DefaultValue: "not-a-bool", HasDefault: true},
	})
	err := ValidateTransformerSchema(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "a" is required but declares a defaultValue`)
	assert.Contains(t, err.Error(), `field "b" is optional but declares no defaultValue`)
	assert.Contains(t, err.Error(), `field "c" declares type boolean but its defaultValue is of type string`)
}

func TestCompareSchemasEquivalent(t *testing.T) {
	a := schema(map[string]recipe.SchemaField{
		"x": {Type: recipe.TypeNumber, Required: true},
	})
	r := schema(map[string]recipe.SchemaField{
		"x": {Type: recipe.TypeNumber, Required: true},
	})
	assert.NoError(t, CompareSchemas(a, r))
}

func TestCompareSchemasMismatchedKeySets(t *testing.T) {
	a := schema(map[string]recipe.SchemaField{
		"x": {Type: recipe.TypeNumber, Required: true},
		"y": {Type: recipe.TypeString, Required: false, DefaultValue: "hi", HasDefault: true},
	})
	r := schema(map[string]recipe.SchemaField{
		"x": {Type: recipe.TypeNumber, Required: true},
		"z": {Type: recipe.TypeBoolean, Required: false, DefaultValue: true, HasDefault: true},
	})
	err := CompareSchemas(a, r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "y" is declared by the transformer artifact but missing from the recipe schema`)
	assert.Contains(t, err.Error(), `field "z" is declared by the recipe schema but missing from the transformer artifact`)
}

func TestMergeUsesDefaultsAndCallerValues(t *testing.T) {
	s := schema(map[string]recipe.SchemaField{
		"intervalInSecs": {Type: recipe.TypeNumber, Required: true},
		"timestamp":      {Type: recipe.TypeBoolean, Required: false, DefaultValue: false, HasDefault: true},
		"message":        {Type: recipe.TypeString, Required: false, DefaultValue: "Ping pong", HasDefault: true},
	})

	params, err := Merge(s, map[string]any{"intervalInSecs": 5.0, "message": "Logger A says hi"})
	require.NoError(t, err)
	assert.Equal(t, 5.0, params["intervalInSecs"])
	assert.Equal(t, "Logger A says hi", params["message"])
	assert.Equal(t, false, params["timestamp"])
}

func TestMergeMissingRequiredField(t *testing.T) {
	s := schema(map[string]recipe.SchemaField{
		"intervalInSecs": {Type: recipe.TypeNumber, Required: true},
		"timestamp":      {Type: recipe.TypeBoolean, Required: false, DefaultValue: false, HasDefault: true},
	})
	_, err := Merge(s, map[string]any{"timestamp": true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "intervalInSecs" is required but no value was supplied`)
}

func TestMergeRejectsUnknownKey(t *testing.T) {
	s := schema(map[string]recipe.SchemaField{
		"x": {Type: recipe.TypeNumber, Required: true},
	})
	_, err := Merge(s, map[string]any{"x": 1.0, "y": 2.0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `caller supplied field "y" which is not declared in the schema`)
}

func TestMergeRejectsCapitalizationMismatch(t *testing.T) {
	s := schema(map[string]recipe.SchemaField{
		"numberParam": {Type: recipe.TypeNumber, Required: true},
	})
	_, err := Merge(s, map[string]any{"NumberParam": 1.0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "numberParam" is required but no value was supplied`)
	assert.Contains(t, err.Error(), `caller supplied field "NumberParam" which is not declared in the schema`)
}

func TestMergeRejectsWrongType(t *testing.T) {
	s := schema(map[string]recipe.SchemaField{
		"x": {Type: recipe.TypeNumber, Required: true},
	})
	_, err := Merge(s, map[string]any{"x": "not-a-number"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `caller supplied a value of type string, schema declares number`)
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, recipe.TypeString, TypeOf("hi"))
	assert.Equal(t, recipe.TypeNumber, TypeOf(3))
	assert.Equal(t, recipe.TypeNumber, TypeOf(3.5))
	assert.Equal(t, recipe.TypeBoolean, TypeOf(true))
	assert.Equal(t, recipe.TypeArray, TypeOf([]any{1, 2}))
	assert.Equal(t, recipe.TypeObject, TypeOf(map[string]any{"a": 1}))
	assert.Equal(t, recipe.TypeNull, TypeOf(nil))
}
