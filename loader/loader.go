// Package loader is the Loader/Planner (C6): it scans a recipe directory,
// classifies every recipe, validates the template-dependency rules, and
// emits a deterministic per-template work plan for the expansion driver.
package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/edgeforge/recipex/recipe"
	"github.com/edgeforge/recipex/semverrange"
	"github.com/edgeforge/recipex/store"
	"github.com/edgeforge/recipex/xerrors"
)

// Plan is the loader's output: for every template, the ordered list of
// parameter-file identifiers that depend on it. Iterating Templates in
// order and, for each, ParameterFiles in order reproduces the deterministic
// expansion order the expansion driver requires.
type Plan struct {
	Templates      []string
	ParameterFiles map[string][]recipe.Identifier
	TemplateRecipe map[string]*recipe.Recipe

	// RecipeByIdentifier is the scan's identifier→recipe index, exposed so
	// the expansion driver can resolve each parameter-file identifier back
	// to its parsed recipe without a second pass over the store.
	RecipeByIdentifier map[recipe.Identifier]*recipe.Recipe

	// Warnings holds non-fatal advisories collected while building the
	// plan: conditions the scan can proceed past but a recipe author
	// likely wants to know about. They never affect Templates or
	// ParameterFiles.
	Warnings []string
}

// looksLikeTemplateName is the advisory-only heuristic from the Open
// Questions note: a dependency name ending in "Template" is flagged with a
// warning when no such template is found locally, even though it might
// simply be an ordinary component dependency. Component type remains the
// sole authority for classification (recipe.Recipe.IsTemplate); this
// function never gates a DependencyError.
func looksLikeTemplateName(name string) bool {
	return strings.HasSuffix(name, "Template")
}

// Scan walks dir via s, classifies every recipe it finds, validates the
// template-dependency rules, and returns the resulting plan. It implements
// the three passes: index, classify/validate, and lifecycle check.
func Scan(s store.RecipeStore, dir string) (*Plan, error) {
	entries, err := s.ListRecipes(dir)
	if err != nil {
		return nil, err
	}

	byIdentifier := make(map[recipe.Identifier]*recipe.Recipe, len(entries))
	templateByName := make(map[string]*recipe.Recipe)

	// Pass 1 — scan: index every recipe by identifier, and templates also
	// by name, keeping only the highest version seen per template name.
	for _, e := range entries {
		r := e.Recipe
		byIdentifier[r.Identifier()] = r

		if !r.IsTemplate() {
			continue
		}
		existing, ok := templateByName[r.Name]
		if !ok {
			templateByName[r.Name] = r
			continue
		}
		highest, err := semverrange.Highest(existing.Version, r.Version)
		if err != nil {
			return nil, xerrors.DependencyErrorf("template %s has unparseable versions %s/%s: %v", r.Name, existing.Version, r.Version, err)
		}
		if highest == r.Version {
			templateByName[r.Name] = r
		}
	}

	plan := &Plan{
		ParameterFiles:     make(map[string][]recipe.Identifier),
		TemplateRecipe:     make(map[string]*recipe.Recipe),
		RecipeByIdentifier: byIdentifier,
	}
	for name, r := range templateByName {
		plan.TemplateRecipe[name] = r
		plan.ParameterFiles[name] = nil
	}

	// Pass 2 — classify and validate dependency rules.
	for _, e := range entries {
		r := e.Recipe

		templateDeps := 0
		var matchedTemplateName string

		for depName, dep := range r.Dependencies {
			template, isTemplateDep := templateByName[depName]
			switch {
			case isTemplateDep && r.IsTemplate():
				return nil, xerrors.DependencyError("templates cannot depend on other templates")
			case isTemplateDep:
				satisfies, err := template.Identifier().Satisfies(dep.VersionRequirement)
				if err != nil {
					return nil, xerrors.DependencyErrorf("component %s depends on %s at an unparseable version: %v", r.Name, depName, err)
				}
				if !satisfies {
					return nil, xerrors.DependencyErrorf("component %s depends on version of %s that can't be found locally", r.Name, depName)
				}
				templateDeps++
				matchedTemplateName = depName
			case looksLikeTemplateName(depName):
				plan.Warnings = append(plan.Warnings, fmt.Sprintf(
					"component %s depends on %q, which looks like a template name, but no such template was found locally — treating it as an ordinary dependency",
					r.Name, depName))
			}
		}

		if r.IsTemplate() {
			continue
		}
		if templateDeps > 1 {
			return nil, xerrors.DependencyError("parameter file has multiple template dependencies")
		}
		if templateDeps == 1 {
			plan.ParameterFiles[matchedTemplateName] = append(plan.ParameterFiles[matchedTemplateName], r.Identifier())
		}
	}

	// Pass 3 — lifecycle check: every template must carry an empty
	// lifecycle throughout.
	for name, r := range templateByName {
		if r.HasNonEmptyLifecycle() {
			return nil, xerrors.RecipeTransformerError(fmt.Sprintf("template %s cannot have non-empty lifecycle", name), nil)
		}
	}

	for name := range plan.ParameterFiles {
		sort.Slice(plan.ParameterFiles[name], func(i, j int) bool {
			a, b := plan.ParameterFiles[name][i], plan.ParameterFiles[name][j]
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.Version < b.Version
		})
	}

	plan.Templates = make([]string, 0, len(templateByName))
	for name := range templateByName {
		plan.Templates = append(plan.Templates, name)
	}
	sort.Strings(plan.Templates)

	return plan, nil
}
