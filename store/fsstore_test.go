package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeforge/recipex/recipe"
)

const sampleRecipeYAML = `
formatVersion: "2025-01-01"
name: logger-a
version: 1.0.0
type: generic
`

func TestListRecipesSkipsSidecarFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logger-a.yaml"), []byte(sampleRecipeYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logger-a.meta.yaml"), []byte("not a recipe at all: {"), 0o644))

	s := NewFSStore(dir, filepath.Join(dir, "artifacts"))
	entries, err := s.ListRecipes(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "logger-a", entries[0].Recipe.Name)
}

func TestListRecipesFailsFastNamingOffendingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("type: not-a-real-type\nname: x\nversion: 1.0.0\nformatVersion: \"1\"\n"), 0o644))

	s := NewFSStore(dir, filepath.Join(dir, "artifacts"))
	_, err := s.ListRecipes(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}

func TestListRecipesOnMissingDirReturnsEmpty(t *testing.T) {
	s := NewFSStore(filepath.Join(t.TempDir(), "does-not-exist"), "")
	entries, err := s.ListRecipes(s.recipesRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveAndDeleteComponentRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewFSStore(dir, filepath.Join(dir, "artifacts"))

	id := recipe.Identifier{Name: "logger-a", Version: "1.0.0"}
	r := &recipe.Recipe{FormatVersion: "2025-01-01", Name: "logger-a", Version: "1.0.0", Type: recipe.ComponentGeneric}

	require.NoError(t, s.SavePackageRecipe(id, r))

	entries, err := s.ListRecipes(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].Recipe.Identifier())

	require.NoError(t, s.DeleteComponent(id))
	entries, err = s.ListRecipes(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Deleting again is not an error.
	require.NoError(t, s.DeleteComponent(id))
}

func TestResolveArtifactDirectoryPathIsPure(t *testing.T) {
	s := NewFSStore("/recipes", "/artifacts")
	id := recipe.Identifier{Name: "LoggerTemplate", Version: "1.0.0"}
	assert.Equal(t, filepath.Join("/artifacts", "LoggerTemplate", "1.0.0"), s.ResolveArtifactDirectoryPath(id))
}

func TestDeleteTemplatesBatch(t *testing.T) {
	dir := t.TempDir()
	s := NewFSStore(dir, filepath.Join(dir, "artifacts"))

	ids := []recipe.Identifier{
		{Name: "a", Version: "1.0.0"},
		{Name: "b", Version: "1.0.0"},
	}
	for _, id := range ids {
		require.NoError(t, s.SavePackageRecipe(id, &recipe.Recipe{FormatVersion: "1", Name: id.Name, Version: id.Version, Type: recipe.ComponentTemplate}))
	}

	require.NoError(t, s.DeleteTemplates(ids))

	entries, err := s.ListRecipes(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
