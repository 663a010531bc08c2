// Package store is the Recipe Store Gateway: the only part of the engine
// that touches disk. Every other package receives recipes already parsed
// and hands back recipes already serialized; store.RecipeStore is the
// narrow interface through which that I/O actually happens.
package store

import (
	"github.com/edgeforge/recipex/recipe"
)

// sidecarSuffixes mark a file as metadata or a detached signature alongside
// a recipe rather than a recipe itself; ListRecipes skips any file ending
// in one of these.
var sidecarSuffixes = []string{".meta.yaml", ".meta.json", ".sig"}

// Entry pairs a recipe's on-disk path with its parsed form, as produced by
// ListRecipes.
type Entry struct {
	Path   string
	Recipe *recipe.Recipe
}

// RecipeStore is the interface the core consumes to read, write, and
// resolve recipes and artifacts. The engine never opens a file itself;
// every access to the filesystem (or to a future non-filesystem backend)
// goes through this interface.
type RecipeStore interface {
	// ListRecipes walks dir and returns every parseable recipe found,
	// skipping subdirectories and sidecar-metadata files. It fails fast,
	// naming the offending file, on the first recipe that doesn't parse.
	ListRecipes(dir string) ([]Entry, error)

	// SavePackageRecipe persists r under identifier id, overwriting any
	// recipe already saved for that identifier.
	SavePackageRecipe(id recipe.Identifier, r *recipe.Recipe) error

	// DeleteComponent removes the recipe saved for id, if any. Deleting an
	// identifier that was never saved is not an error.
	DeleteComponent(id recipe.Identifier) error

	// ResolveArtifactDirectoryPath returns the directory under which id's
	// artifacts live. It is a pure function of id and the store root: it
	// performs no I/O and does not assert the directory exists.
	ResolveArtifactDirectoryPath(id recipe.Identifier) string
}
