// Package recipe is the typed representation of a component recipe: a
// name, a semver version, an optional dependency map, zero or more
// platform-specific manifests carrying lifecycle steps, and — for
// templates — a parameter schema.
//
// This package has no dependency on any other package in this module
// besides xerrors and semverrange; every other package builds on top of
// it, which keeps the type definitions reusable without import cycles.
package recipe

import "github.com/edgeforge/recipex/semverrange"

// ComponentType classifies what a recipe represents. "template" recipes
// carry no lifecycle and ship a transformer artifact; every other type is
// an ordinary, directly installable component.
type ComponentType string

const (
	ComponentGeneric  ComponentType = "generic"
	ComponentTemplate ComponentType = "template"
)

// Identifier uniquely names a recipe within a single expansion run.
type Identifier struct {
	Name    string
	Version string
}

func (id Identifier) String() string {
	return id.Name + "@" + id.Version
}

// Satisfies reports whether id's version satisfies the given semver range
// expression (e.g. "^2.0").
func (id Identifier) Satisfies(rangeExpr string) (bool, error) {
	return semverrange.Satisfies(id.Version, rangeExpr)
}

// Dependency is one entry of a recipe's dependency map: a version range
// requirement on another component, looked up by name.
type Dependency struct {
	VersionRequirement string `yaml:"versionRequirement" json:"versionRequirement"`
}

// LifecycleStep is a single lifecycle phase's action: either a plain
// shell command, or a structured, ordered list of commands. Either form is
// written as a mapping with a "run" key, a "steps" key, or both; a bare
// scalar in place of the mapping is not accepted.
type LifecycleStep struct {
	Command string   `yaml:"run,omitempty" json:"run,omitempty"`
	Steps   []string `yaml:"steps,omitempty" json:"steps,omitempty"`
}

// IsEmpty reports whether the step carries no action at all.
func (s LifecycleStep) IsEmpty() bool {
	return s.Command == "" && len(s.Steps) == 0
}

// Lifecycle maps a phase name (e.g. "install", "run", "remove") to its
// step. A template's lifecycle, at every level, MUST be empty.
type Lifecycle map[string]LifecycleStep

// IsEmpty reports whether every phase in the lifecycle is empty.
func (l Lifecycle) IsEmpty() bool {
	for _, step := range l {
		if !step.IsEmpty() {
			return false
		}
	}
	return true
}

// Manifest is one platform-specific view of a recipe: a platform matcher
// (e.g. "linux/amd64", or "*" for any platform) and that platform's
// lifecycle.
type Manifest struct {
	PlatformMatcher string    `yaml:"platform" json:"platform"`
	Lifecycle       Lifecycle `yaml:"lifecycle,omitempty" json:"lifecycle,omitempty"`
}

// Configuration carries the caller-supplied parameter values for a
// parameter file, or the declared defaults mirrored for human reference
// on a template.
type Configuration struct {
	DefaultConfiguration map[string]any `yaml:"defaultConfiguration,omitempty" json:"defaultConfiguration,omitempty"`
}

// Recipe is the typed representation of a single recipe file.
type Recipe struct {
	FormatVersion   string                `yaml:"formatVersion" json:"formatVersion"`
	Name            string                `yaml:"name" json:"name"`
	Version         string                `yaml:"version" json:"version"`
	Description     string                `yaml:"description,omitempty" json:"description,omitempty"`
	Type            ComponentType         `yaml:"type,omitempty" json:"type,omitempty"`
	Dependencies    map[string]Dependency `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Manifests       []Manifest            `yaml:"manifests,omitempty" json:"manifests,omitempty"`
	Lifecycle       Lifecycle             `yaml:"lifecycle,omitempty" json:"lifecycle,omitempty"`
	ParameterSchema ParameterSchema       `yaml:"parameterSchema,omitempty" json:"parameterSchema,omitempty"`
	Configuration   *Configuration        `yaml:"configuration,omitempty" json:"configuration,omitempty"`

	// raw preserves any top-level keys this struct doesn't recognize, so a
	// parse->serialize round trip never silently drops vendor extensions.
	raw map[string]any `yaml:"-" json:"-"`

	// sourceFormat records the encoding r was decoded from by Parse, so
	// the store can persist a derived recipe (e.g. a transform's output)
	// in the same format its originating parameter file was read in. The
	// zero value is formatYAML, matching a recipe built programmatically
	// rather than parsed (e.g. fresh out of a transformer).
	sourceFormat format `yaml:"-" json:"-"`
}

// Identifier returns the (name, version) pair that uniquely names r.
func (r *Recipe) Identifier() Identifier {
	return Identifier{Name: r.Name, Version: r.Version}
}

// IsTemplate reports whether r's component type marks it a template.
// Component type is the sole authority for classification (spec.md §9's
// Open Questions: name-suffix detection is a separate, advisory lint,
// never used for this decision — see the loader package's
// looksLikeTemplateName).
func (r *Recipe) IsTemplate() bool {
	return r.Type == ComponentTemplate
}

// HasNonEmptyLifecycle reports whether any lifecycle, at top level or
// within any manifest, carries an action. Templates must fail this check.
func (r *Recipe) HasNonEmptyLifecycle() bool {
	if !r.Lifecycle.IsEmpty() {
		return true
	}
	for _, m := range r.Manifests {
		if !m.Lifecycle.IsEmpty() {
			return true
		}
	}
	return false
}

// PreferredExtension reports the on-disk extension r should be persisted
// with: the extension it was parsed from, or ".yaml" for a recipe that was
// never parsed (built directly by a transformer, for instance).
func (r *Recipe) PreferredExtension() string {
	if r.sourceFormat == formatJSON {
		return ".json"
	}
	return ".yaml"
}

// InheritFormat copies the source encoding from another recipe, so a
// transformer's output can be persisted in the same format the parameter
// file that produced it was read in.
func (r *Recipe) InheritFormat(from *Recipe) {
	r.sourceFormat = from.sourceFormat
}

// DefaultConfiguration returns the recipe's default-configuration map, or
// an empty map if the recipe carries no configuration block.
func (r *Recipe) DefaultConfiguration() map[string]any {
	if r.Configuration == nil {
		return map[string]any{}
	}
	return r.Configuration.DefaultConfiguration
}
