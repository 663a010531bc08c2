// Package transformer defines the abstract shape a template's transformer
// plugin must satisfy and the per-template initialization protocol that
// binds a loaded transformer to its declaring template recipe.
package transformer

import (
	"github.com/edgeforge/recipex/recipe"
	"github.com/edgeforge/recipex/schemaengine"
)

// Transformer is the contract a template's plugin artifact must satisfy.
// The plugin package's Host loads an artifact and returns a value
// implementing this interface; the expansion driver never talks to the
// artifact's native representation directly.
type Transformer interface {
	// DeclaredSchema is the authoritative parameter schema baked into the
	// transformer artifact itself.
	DeclaredSchema() recipe.ParameterSchema

	// ParameterShape describes the concrete record type Transform expects
	// its effective-parameters argument to conform to. Pure-substitution
	// templates may return an empty schema.
	ParameterShape() recipe.ParameterSchema

	// Transform produces a fully-specified component recipe from a
	// parameter file's recipe and its already-validated, already-merged
	// parameter bag. A failure here is reported as a RecipeTransformerError.
	Transform(paramRecipe *recipe.Recipe, effectiveParams map[string]any) (*recipe.Recipe, error)
}

// Initialize runs the per-template initialization protocol: validate the
// transformer's own declared schema, then compare it against the schema
// mirrored in the template recipe. Either failure aborts initialization for
// this template.
func Initialize(t Transformer, templateRecipe *recipe.Recipe) error {
	declared := t.DeclaredSchema()

	if err := schemaengine.ValidateTransformerSchema(declared); err != nil {
		return err
	}

	if err := schemaengine.CompareSchemas(declared, templateRecipe.ParameterSchema); err != nil {
		return err
	}

	return nil
}
