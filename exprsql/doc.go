// Package exprsql compiles specification expressions to parameterized SQL
// WHERE fragments for SQLite.
//
// This is a consumer of the translation contract: it pattern-matches on the
// expr variant set and relies on the single-parameter invariant the spec
// package guarantees, without re-validating.
//
// The translatable fragment is narrower than what the evaluator accepts:
//   - field access must be directly on the parameter (flat columns only,
//     no nested objects)
//   - one comparison operand must be a column, scalar literals elsewhere
//   - array and object literals have no SQL parameter form
//
// Expressions outside the fragment fail compilation with a
// TranslationError; callers fall back to in-memory evaluation.
//
// Values are never interpolated into the SQL text - every literal becomes
// a ? placeholder with a matching parameter. Column names are validated
// against a strict identifier pattern before splicing.
package exprsql
