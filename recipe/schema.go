package recipe

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// ValueType is one of the five parameter value kinds the schema engine
// understands. "null" is a runtime classification only (schemaengine.TypeOf
// can return it); it is never a valid declared field type.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeObject  ValueType = "object"
	TypeArray   ValueType = "array"
	TypeBoolean ValueType = "boolean"
	TypeNull    ValueType = "null"
)

// SchemaField describes one field of a parameter schema: its value type,
// whether the caller must supply it, and — for optional fields — the
// default value used when the caller doesn't.
type SchemaField struct {
	Type         ValueType `yaml:"type" json:"type"`
	Required     bool      `yaml:"required" json:"required"`
	DefaultValue any       `yaml:"defaultValue,omitempty" json:"defaultValue,omitempty"`
	HasDefault   bool      `yaml:"-" json:"-"`
}

// ParameterSchema is a template's declared parameter contract: a mapping
// from field name to its shape. Field name comparisons throughout this
// module are case-sensitive (spec.md §9's Open Questions adopts the
// case-sensitive rule).
type ParameterSchema map[string]SchemaField

type schemaFieldAlias struct {
	Type         ValueType `yaml:"type" json:"type"`
	Required     bool      `yaml:"required" json:"required"`
	DefaultValue any       `yaml:"defaultValue,omitempty" json:"defaultValue,omitempty"`
}

// UnmarshalYAML distinguishes "no defaultValue key present" from "the
// defaultValue key is present and explicitly null", which the required/
// optional invariant in spec.md §3 depends on.
func (f *SchemaField) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]yaml.Node
	if err := node.Decode(&raw); err != nil {
		return err
	}

	var alias schemaFieldAlias
	if err := node.Decode(&alias); err != nil {
		return err
	}

	f.Type = alias.Type
	f.Required = alias.Required
	f.DefaultValue = alias.DefaultValue
	_, f.HasDefault = raw["defaultValue"]
	return nil
}

// MarshalYAML round-trips a field, only emitting defaultValue when it was
// actually present on the way in (or set programmatically via HasDefault).
func (f SchemaField) MarshalYAML() (any, error) {
	out := map[string]any{
		"type":     f.Type,
		"required": f.Required,
	}
	if f.HasDefault {
		out["defaultValue"] = f.DefaultValue
	}
	return out, nil
}

// UnmarshalJSON applies the same presence-detection as UnmarshalYAML, for
// schema payloads exchanged as JSON across the plugin host/guest ABI.
func (f *SchemaField) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var alias schemaFieldAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	f.Type = alias.Type
	f.Required = alias.Required
	f.DefaultValue = alias.DefaultValue
	_, f.HasDefault = raw["defaultValue"]
	return nil
}

// MarshalJSON mirrors MarshalYAML: defaultValue is only emitted when
// HasDefault is set.
func (f SchemaField) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"type":     f.Type,
		"required": f.Required,
	}
	if f.HasDefault {
		out["defaultValue"] = f.DefaultValue
	}
	return json.Marshal(out)
}
