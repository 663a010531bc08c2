package recipe

import (
	"strings"
	"testing"
)

const genericYAML = `
formatVersion: "2025-01-01"
name: logger-a
version: 1.2.0
description: a generic logging component
type: generic
dependencies:
  logger-template:
    versionRequirement: "^2.0"
manifests:
  - platform: "*"
    lifecycle:
      install:
        run: "echo installing"
      run:
        steps:
          - "echo step one"
          - "echo step two"
`

func TestParseGenericYAML(t *testing.T) {
	r, err := Parse("logger-a.yaml", []byte(genericYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Name != "logger-a" || r.Version != "1.2.0" {
		t.Fatalf("unexpected identity: %+v", r.Identifier())
	}
	if r.IsTemplate() {
		t.Fatalf("expected a generic recipe, got a template")
	}
	if !r.HasNonEmptyLifecycle() {
		t.Fatalf("expected a non-empty lifecycle")
	}
	dep, ok := r.Dependencies["logger-template"]
	if !ok || dep.VersionRequirement != "^2.0" {
		t.Fatalf("unexpected dependency: %+v", r.Dependencies)
	}
}

const templateYAML = `
formatVersion: "2025-01-01"
name: logger-template
version: 2.1.0
type: template
parameterSchema:
  logLevel:
    type: string
    required: false
    defaultValue: "info"
  destination:
    type: string
    required: true
`

func TestParseTemplateSchemaPresence(t *testing.T) {
	r, err := Parse("logger-template.yaml", []byte(templateYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.IsTemplate() {
		t.Fatalf("expected a template recipe")
	}
	if r.HasNonEmptyLifecycle() {
		t.Fatalf("a template must have no lifecycle")
	}

	logLevel := r.ParameterSchema["logLevel"]
	if !logLevel.HasDefault || logLevel.DefaultValue != "info" {
		t.Fatalf("expected logLevel to carry an explicit default, got %+v", logLevel)
	}

	destination := r.ParameterSchema["destination"]
	if destination.HasDefault {
		t.Fatalf("destination declared no defaultValue key, HasDefault should be false")
	}
	if !destination.Required {
		t.Fatalf("destination should be required")
	}
}

func TestParseRejectsUnknownExtension(t *testing.T) {
	if _, err := Parse("recipe.txt", []byte(genericYAML)); err == nil {
		t.Fatalf("expected an error for an unrecognized extension")
	}
}

func TestParseRejectsStructurallyInvalidDocument(t *testing.T) {
	bad := `
formatVersion: "2025-01-01"
name: broken
version: 1.0.0
type: not-a-real-type
`
	if _, err := Parse("broken.yaml", []byte(bad)); err == nil {
		t.Fatalf("expected a structural validation error for an invalid type enum value")
	}
}

func TestSerializeRoundTripPreservesUnknownKeys(t *testing.T) {
	withExtension := `
formatVersion: "2025-01-01"
name: logger-a
version: 1.2.0
type: generic
vendorExtension:
  owner: platform-team
`
	r, err := Parse("logger-a.yaml", []byte(withExtension))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := Serialize("logger-a.yaml", r)
	if err != nil {
		t.Fatalf("unexpected error serializing: %v", err)
	}
	if !strings.Contains(string(out), "vendorExtension") {
		t.Fatalf("expected vendorExtension to survive the round trip, got:\n%s", out)
	}

	reparsed, err := Parse("logger-a.yaml", out)
	if err != nil {
		t.Fatalf("unexpected error reparsing serialized output: %v", err)
	}
	if reparsed.Name != "logger-a" {
		t.Fatalf("unexpected name after round trip: %s", reparsed.Name)
	}
}

func TestSerializeJSONMirrorsYAML(t *testing.T) {
	r, err := Parse("logger-a.yaml", []byte(genericYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := Serialize("logger-a.json", r)
	if err != nil {
		t.Fatalf("unexpected error serializing to JSON: %v", err)
	}

	reparsed, err := Parse("logger-a.json", out)
	if err != nil {
		t.Fatalf("unexpected error reparsing JSON output: %v", err)
	}
	if reparsed.Version != "1.2.0" {
		t.Fatalf("unexpected version after JSON round trip: %s", reparsed.Version)
	}
}
