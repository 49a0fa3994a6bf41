// Package expr provides the predicate-expression AST shared by the
// specification engine and its backends.
//
// An expression is a tree of sealed node types describing a boolean test
// over a single entity parameter:
//
//	[rule catalog] → [Expr AST] → [in-memory evaluator]
//	                            → [SQL WHERE translator]
//
// Because the predicate is data rather than an opaque function, backends
// can pattern-match on the variant set and translate it to their native
// filter syntax.
//
// NODE TYPES:
//   - Parameter: placeholder for the entity under test. Identity matters:
//     two Parameter pointers are the same parameter only if they are the
//     same allocation.
//   - FieldAccess: read a named field off the value produced by its target.
//   - Comparison: eq/neq/lt/lte/gt/gte over two sub-expressions.
//   - Literal: a constant from the value union.
//   - And, Or, Not: logical composition with short-circuit evaluation.
//
// SEALED INTERFACE:
//
// Expr is sealed with the marker method pattern: only pointer node types in
// this package implement it. This enables exhaustive type switches in the
// evaluator and in backend translators:
//
//	switch n := e.(type) {
//	case *expr.Comparison:
//	    // handle comparison
//	case *expr.And:
//	    // handle conjunction
//	...
//	}
//
// SINGLE-PARAMETER INVARIANT:
//
// Every Parameter leaf reachable from a well-formed expression is the same
// node by pointer identity. An expression holding two distinct Parameter
// allocations cannot be evaluated against one entity nor translated by a
// query backend that binds one row to one parameter. Validate performs the
// structural scan; the spec package guarantees the invariant for every
// Specification it constructs.
//
// Expressions are immutable after construction. Rebind returns a deep
// structural clone and never mutates its input, which is what makes
// specification composition non-destructive.
package expr
