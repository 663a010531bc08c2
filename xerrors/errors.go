package xerrors

import (
	"fmt"
	"strings"
)

// Code classifies a Structured error by the table in the engine's error
// handling design: every kind is fatal to the batch it occurs in.
type Code string

const (
	CodeTemplateAuthoring Code = "TEMPLATE_AUTHORING"
	CodeSchemaMismatch    Code = "SCHEMA_MISMATCH"
	CodeDependency        Code = "DEPENDENCY"
	CodeRecipeTransformer Code = "RECIPE_TRANSFORMER"
	CodePlugin            Code = "PLUGIN"
	CodeStoreIO           Code = "STORE_IO"
)

// Structured is the common shape of every error kind the engine raises.
// Violations holds every individual problem found during an aggregating
// operation (schema validation, schema comparison, parameter merge) so
// that a caller sees the full list in one error instead of fixing issues
// one at a time across repeated runs.
type Structured struct {
	Code       Code
	Message    string
	Cause      error
	Violations []string
}

func (e *Structured) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if len(e.Violations) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Violations, "; "))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, " (cause: %v)", e.Cause)
	}
	return b.String()
}

// Unwrap supports errors.Is / errors.As against the wrapped cause.
func (e *Structured) Unwrap() error {
	return e.Cause
}

func newf(code Code, violations []string, format string, args ...any) *Structured {
	return &Structured{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		Violations: violations,
	}
}

// TemplateAuthoringError reports that a transformer-declared parameter
// schema violates the per-field invariants (required fields with a
// default, optional fields missing one, or a mistyped default).
func TemplateAuthoringError(violations []string) *Structured {
	return newf(CodeTemplateAuthoring, violations, "template authoring error: %d violation(s)", len(violations))
}

// SchemaMismatchError reports that the schema declared by a transformer
// artifact does not equal the schema mirrored in the template recipe.
func SchemaMismatchError(violations []string) *Structured {
	return newf(CodeSchemaMismatch, violations, "transformer schema does not match recipe schema: %d difference(s)", len(violations))
}

// DependencyError reports a template-dependency rule violation: a template
// depending on another template, more than one template dependency on a
// single recipe, or a dependency whose locally present version doesn't
// satisfy the declared range.
func DependencyError(message string) *Structured {
	return &Structured{Code: CodeDependency, Message: message}
}

// DependencyErrorf is DependencyError with printf-style formatting.
func DependencyErrorf(format string, args ...any) *Structured {
	return newf(CodeDependency, nil, format, args...)
}

// RecipeTransformerError covers a template with a non-empty lifecycle, a
// failing transformer.Transform call, or caller-supplied parameters that
// fail validation/merge.
func RecipeTransformerError(message string, cause error) *Structured {
	return &Structured{Code: CodeRecipeTransformer, Message: message, Cause: cause}
}

// RecipeTransformerErrorWithViolations is RecipeTransformerError with an
// aggregated violation list, used by parameter merge failures.
func RecipeTransformerErrorWithViolations(violations []string) *Structured {
	return newf(CodeRecipeTransformer, violations, "parameter validation failed: %d violation(s)", len(violations))
}

// PluginError covers a missing artifact, a load failure, zero or multiple
// candidate transformers, or a transformer that failed to instantiate.
func PluginError(message string, cause error) *Structured {
	return &Structured{Code: CodePlugin, Message: message, Cause: cause}
}

// StoreIOError wraps an underlying persistence failure.
func StoreIOError(message string, cause error) *Structured {
	return &Structured{Code: CodeStoreIO, Message: message, Cause: cause}
}
