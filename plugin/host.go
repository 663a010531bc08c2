// Package plugin loads a template's transformer artifact into an isolated
// scope, discovers its single well-known entrypoint, and adapts it to the
// transformer.Transformer contract.
//
// The only implementation today loads WebAssembly artifacts via
// tetratelabs/wazero: a fresh wazero.Runtime is created for every Load
// call, which gives each artifact its own module namespace. Two templates
// that each ship a guest function or type named identically never
// collide, because they are never linked into the same runtime.
package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/edgeforge/recipex/recipe"
	"github.com/edgeforge/recipex/transformer"
	"github.com/edgeforge/recipex/xerrors"
)

// Host loads a transformer artifact and binds it to its declaring template
// recipe, implementing the C4 transformer contract over whatever native
// plugin representation the concrete Host understands.
type Host interface {
	// Load reads the artifact at artifactPath, discovers its sole
	// transformer entrypoint, and returns a ready-to-initialize
	// transformer.Transformer bound to templateRecipe.
	Load(ctx context.Context, artifactPath string, templateRecipe *recipe.Recipe) (transformer.Transformer, error)
}

// WasmHost is the Host implementation backed by WebAssembly artifacts.
type WasmHost struct{}

// NewWasmHost constructs a WasmHost. The struct carries no state: every
// isolation boundary lives in the per-Load runtime, not in the host.
func NewWasmHost() *WasmHost {
	return &WasmHost{}
}

// Load instantiates artifactPath in a fresh wazero.Runtime, discovers the
// sole "<prefix>_transform" entrypoint, and returns a transformer.Transformer
// that calls back into that isolated module for every operation.
func (h *WasmHost) Load(ctx context.Context, artifactPath string, templateRecipe *recipe.Recipe) (transformer.Transformer, error) {
	if _, err := os.Stat(artifactPath); err != nil {
		return nil, xerrors.PluginError(fmt.Sprintf("transformer artifact not found: %s", artifactPath), nil)
	}

	wasmBytes, err := os.ReadFile(artifactPath)
	if err != nil {
		return nil, xerrors.PluginError(fmt.Sprintf("failed to read transformer artifact: %s", artifactPath), err)
	}

	runtime := wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		runtime.Close(ctx)
		return nil, xerrors.PluginError("failed to instantiate WASI host module", err)
	}

	compiled, err := runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		runtime.Close(ctx)
		return nil, xerrors.PluginError(fmt.Sprintf("failed to load transformer artifact: %s", artifactPath), err)
	}

	names := make([]string, 0, len(compiled.ExportedFunctions()))
	for name := range compiled.ExportedFunctions() {
		names = append(names, name)
	}

	mod, err := runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		runtime.Close(ctx)
		return nil, xerrors.PluginError(fmt.Sprintf("failed to instantiate transformer artifact: %s", artifactPath), err)
	}

	prefix, err := discoverTransformerPrefix(names)
	if err != nil {
		mod.Close(ctx)
		runtime.Close(ctx)
		return nil, err
	}

	t := &wasmTransformer{
		runtime:        runtime,
		mod:            mod,
		prefix:         prefix,
		templateRecipe: templateRecipe,
	}

	if _, err := t.callSchema(ctx, t.schemaFuncName()); err != nil {
		t.Close(ctx)
		return nil, xerrors.PluginError("could not instantiate transformer", err)
	}

	return t, nil
}

// wasmTransformer adapts one loaded, discovered WASM module to the
// transformer.Transformer contract.
type wasmTransformer struct {
	runtime        wazero.Runtime
	mod            api.Module
	prefix         string
	templateRecipe *recipe.Recipe
}

func (t *wasmTransformer) schemaFuncName() string    { return t.prefix + "_declared_schema" }
func (t *wasmTransformer) shapeFuncName() string     { return t.prefix + "_parameter_shape" }
func (t *wasmTransformer) transformFuncName() string { return t.prefix + "_transform" }

func (t *wasmTransformer) DeclaredSchema() recipe.ParameterSchema {
	schema, err := t.callSchema(context.Background(), t.schemaFuncName())
	if err != nil {
		// DeclaredSchema() was already called once successfully during
		// Load; a failure here means the guest misbehaves across calls,
		// which the interface has no error return to report. Surface an
		// empty schema so the caller's comparison against the recipe
		// schema fails loudly instead of panicking.
		return recipe.ParameterSchema{}
	}
	return schema
}

func (t *wasmTransformer) ParameterShape() recipe.ParameterSchema {
	if fn := t.mod.ExportedFunction(t.shapeFuncName()); fn != nil {
		if shape, err := t.callSchema(context.Background(), t.shapeFuncName()); err == nil {
			return shape
		}
	}
	return t.DeclaredSchema()
}

func (t *wasmTransformer) callSchema(ctx context.Context, funcName string) (recipe.ParameterSchema, error) {
	fn := t.mod.ExportedFunction(funcName)
	if fn == nil {
		return nil, fmt.Errorf("guest function %s not found", funcName)
	}
	out, err := callPacked(ctx, t.mod, fn, nil)
	if err != nil {
		return nil, err
	}
	var schema recipe.ParameterSchema
	if err := json.Unmarshal(out, &schema); err != nil {
		return nil, fmt.Errorf("guest function %s returned invalid schema JSON: %w", funcName, err)
	}
	return schema, nil
}

// transformRequest is the JSON payload sent to the guest's transform
// entrypoint: the parameter file's own recipe, plus the already-validated,
// already-merged parameter bag.
type transformRequest struct {
	ParamRecipe     *recipe.Recipe `json:"paramRecipe"`
	EffectiveParams map[string]any `json:"effectiveParams"`
}

func (t *wasmTransformer) Transform(paramRecipe *recipe.Recipe, effectiveParams map[string]any) (*recipe.Recipe, error) {
	fn := t.mod.ExportedFunction(t.transformFuncName())
	if fn == nil {
		return nil, xerrors.RecipeTransformerError(fmt.Sprintf("guest function %s not found", t.transformFuncName()), nil)
	}

	payload, err := json.Marshal(transformRequest{ParamRecipe: paramRecipe, EffectiveParams: effectiveParams})
	if err != nil {
		return nil, xerrors.RecipeTransformerError("failed to marshal transform request", err)
	}

	out, err := callPacked(context.Background(), t.mod, fn, payload)
	if err != nil {
		return nil, xerrors.RecipeTransformerError("transformer.transform failed", err)
	}

	var result recipe.Recipe
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, xerrors.RecipeTransformerError("guest transform function returned invalid recipe JSON", err)
	}
	return &result, nil
}

// Close releases the module and the runtime that owns its isolated scope.
// Every Load call's scope must be disposed independently so a single
// process can load many disjoint templates over its lifetime without
// leaking the previous ones.
func (t *wasmTransformer) Close(ctx context.Context) error {
	if err := t.mod.Close(ctx); err != nil {
		t.runtime.Close(ctx)
		return err
	}
	return t.runtime.Close(ctx)
}
