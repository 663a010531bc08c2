// Package recipex is the recipe template expansion engine: it traverses a
// recipe directory and an artifacts directory, pairs each parameter file
// with its template, invokes the template's transformer, and persists the
// resulting fully-specified recipes back into the component store.
package recipex

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/edgeforge/recipex/loader"
	"github.com/edgeforge/recipex/plugin"
	"github.com/edgeforge/recipex/recipe"
	"github.com/edgeforge/recipex/schemaengine"
	"github.com/edgeforge/recipex/store"
	"github.com/edgeforge/recipex/transformer"
	"github.com/edgeforge/recipex/xerrors"
)

// Driver is the Expansion Driver (C7): it orchestrates the Plugin Host and
// the Loader/Planner, and is the sole writer to the Recipe Store Gateway.
// Both collaborators are explicit constructor parameters; Driver never
// reaches into a global registry for either one.
type Driver struct {
	store store.RecipeStore
	host  plugin.Host
}

// NewDriver constructs a Driver bound to the given store and plugin host.
func NewDriver(s store.RecipeStore, host plugin.Host) *Driver {
	return &Driver{store: s, host: host}
}

// Process runs a single expansion batch: scan recipeDir, build the plan,
// and for each template in lexicographic order, load its transformer and
// expand every dependent parameter file in the plan's order. Any failure
// aborts the batch; recipes already persisted remain persisted.
func (d *Driver) Process(ctx context.Context, recipeDir, artifactsDir string) error {
	runID := uuid.NewString()
	InfoLog("[%s] scanning recipes in %s", runID, recipeDir)

	plan, err := loader.Scan(d.store, recipeDir)
	if err != nil {
		ErrorLog("[%s] scan failed: %v", runID, err)
		return err
	}
	for _, warning := range plan.Warnings {
		WarnLog("[%s] %s", runID, warning)
	}
	InfoLog("[%s] plan built: %d template(s)", runID, len(plan.Templates))

	for _, templateName := range plan.Templates {
		if err := d.expandTemplate(ctx, runID, artifactsDir, plan, templateName); err != nil {
			return err
		}
	}

	InfoLog("[%s] expansion complete", runID)
	return nil
}

func (d *Driver) expandTemplate(ctx context.Context, runID, artifactsDir string, plan *loader.Plan, templateName string) error {
	templateRecipe := plan.TemplateRecipe[templateName]
	id := templateRecipe.Identifier()
	artifactPath := filepath.Join(artifactsDir, id.Name, id.Version, "transformer.wasm")

	InfoLog("[%s] loading transformer for %s from %s", runID, id, artifactPath)
	t, err := d.host.Load(ctx, artifactPath, templateRecipe)
	if err != nil {
		ErrorLog("[%s] failed to load transformer for %s: %v", runID, id, err)
		return err
	}
	defer closeIfCloser(ctx, t)

	if err := transformer.Initialize(t, templateRecipe); err != nil {
		ErrorLog("[%s] failed to initialize transformer for %s: %v", runID, id, err)
		return err
	}

	for _, paramID := range plan.ParameterFiles[templateName] {
		if err := d.expandParameterFile(runID, t, templateName, paramID, plan); err != nil {
			return err
		}
	}

	return nil
}

func (d *Driver) expandParameterFile(runID string, t transformer.Transformer, templateName string, paramID recipe.Identifier, plan *loader.Plan) error {
	paramRecipe, ok := plan.RecipeByIdentifier[paramID]
	if !ok {
		return xerrors.RecipeTransformerError(fmt.Sprintf("internal error: parameter file %s not found in scan results", paramID), nil)
	}

	params, err := schemaengine.Merge(t.DeclaredSchema(), paramRecipe.DefaultConfiguration())
	if err != nil {
		ErrorLog("[%s] parameter merge failed for %s against template %s: %v", runID, paramID, templateName, err)
		return err
	}

	expanded, err := t.Transform(paramRecipe, params)
	if err != nil {
		ErrorLog("[%s] transform failed for %s against template %s: %v", runID, paramID, templateName, err)
		return err
	}
	expanded.InheritFormat(paramRecipe)

	if err := d.store.SavePackageRecipe(expanded.Identifier(), expanded); err != nil {
		ErrorLog("[%s] failed to persist expanded recipe for %s: %v", runID, paramID, err)
		return err
	}

	InfoLog("[%s] expanded %s -> %s", runID, paramID, expanded.Identifier())
	return nil
}

// closeIfCloser disposes a transformer's plugin scope if it implements
// io.Closer-like cleanup (the WASM-backed implementation does). A
// transformer that doesn't own a disposable scope is left alone.
func closeIfCloser(ctx context.Context, t transformer.Transformer) {
	type closer interface {
		Close(ctx context.Context) error
	}
	if c, ok := t.(closer); ok {
		if err := c.Close(ctx); err != nil {
			ErrorLog("failed to close transformer plugin scope: %v", err)
		}
	}
}
