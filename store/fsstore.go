package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/edgeforge/recipex/recipe"
	"github.com/edgeforge/recipex/xerrors"
)

// FSStore is the filesystem-backed RecipeStore: recipes are persisted one
// file per (name, version) under recipesRoot, and artifact directories are
// resolved (but never created) under artifactsRoot.
type FSStore struct {
	recipesRoot   string
	artifactsRoot string
}

// NewFSStore constructs a store rooted at recipesRoot for persisted
// recipes and artifactsRoot for transformer/component artifacts.
func NewFSStore(recipesRoot, artifactsRoot string) *FSStore {
	return &FSStore{recipesRoot: recipesRoot, artifactsRoot: artifactsRoot}
}

func isSidecarFile(path string) bool {
	for _, suffix := range sidecarSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

func isRecipeExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

// ListRecipes walks dir, parsing every file that looks like a recipe and
// skipping sidecar-metadata files. The first unparseable recipe aborts the
// whole walk, naming the offending file.
func (s *FSStore) ListRecipes(dir string) ([]Entry, error) {
	var entries []Entry

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return entries, nil
	}

	walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if isSidecarFile(path) {
			return nil
		}
		if !isRecipeExt(path) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return xerrors.StoreIOError(fmt.Sprintf("failed to read recipe file %s", path), err)
		}

		r, err := recipe.Parse(path, data)
		if err != nil {
			return xerrors.StoreIOError(fmt.Sprintf("failed to parse recipe file %s", path), err)
		}

		entries = append(entries, Entry{Path: path, Recipe: r})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return entries, nil
}

// recipeExtensions lists every extension a recipe may have been persisted
// under, in the order DeleteComponent tries them.
var recipeExtensions = []string{".yaml", ".json"}

func (s *FSStore) recipePath(id recipe.Identifier, ext string) string {
	return filepath.Join(s.recipesRoot, id.Name, id.Version+ext)
}

// SavePackageRecipe writes r to the path identified by id, creating parent
// directories as needed. The file's encoding follows r.PreferredExtension,
// so a recipe persisted here carries forward the format its originating
// parameter file was read in. Calling it again for the same identifier
// overwrites the previous contents.
func (s *FSStore) SavePackageRecipe(id recipe.Identifier, r *recipe.Recipe) error {
	path := s.recipePath(id, r.PreferredExtension())

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return xerrors.StoreIOError(fmt.Sprintf("failed to create directory for recipe %s", id), err)
	}

	data, err := recipe.Serialize(path, r)
	if err != nil {
		return xerrors.StoreIOError(fmt.Sprintf("failed to serialize recipe %s", id), err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return xerrors.StoreIOError(fmt.Sprintf("failed to write recipe %s", id), err)
	}

	return nil
}

// DeleteComponent removes the recipe saved for id, trying every extension
// a recipe may have been persisted under (SavePackageRecipe picks the
// extension per-recipe, so deletion can't assume a single one). Deleting
// an identifier with nothing saved under any extension is not an error.
func (s *FSStore) DeleteComponent(id recipe.Identifier) error {
	for _, ext := range recipeExtensions {
		err := os.Remove(s.recipePath(id, ext))
		if err != nil && !os.IsNotExist(err) {
			return xerrors.StoreIOError(fmt.Sprintf("failed to delete recipe %s", id), err)
		}
	}
	return nil
}

// ResolveArtifactDirectoryPath returns id's artifact directory. It performs
// no I/O and does not assert the directory exists.
func (s *FSStore) ResolveArtifactDirectoryPath(id recipe.Identifier) string {
	return filepath.Join(s.artifactsRoot, id.Name, id.Version)
}

// DeleteTemplates is a supplemented convenience not named in the core
// contract: a caller that wants to purge template recipes from the store
// after a successful expansion (§4.7 leaves this to the caller) can do so
// in one call instead of looping over DeleteComponent itself. The first
// failure aborts the batch; identifiers processed before it remain
// deleted.
func (s *FSStore) DeleteTemplates(ids []recipe.Identifier) error {
	for _, id := range ids {
		if err := s.DeleteComponent(id); err != nil {
			return err
		}
	}
	return nil
}
