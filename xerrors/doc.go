// Package xerrors defines the structured error kinds the recipe expansion
// engine surfaces upward: TemplateAuthoringError, SchemaMismatchError,
// DependencyError, RecipeTransformerError, PluginError and StoreIOError.
//
// Every kind is the same Go type, *Structured (a code, a message, an
// optional cause, and an aggregated list of violations), so that callers
// tell kinds apart by their Code without losing the underlying detail, and
// so the operations
// that are required to report every violation in one pass (schema
// validation, schema comparison, parameter merge) have a single place to
// accumulate them.
package xerrors
