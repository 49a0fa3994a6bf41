// Package spec implements composable specifications: named business rules
// that can be evaluated in memory, combined with AND/OR/NOT, and handed to
// a query backend as a predicate-expression tree.
//
// A Specification wraps one expr.Expr closed over one expr.Parameter. Leaf
// specifications are built directly (Where, New); composite specifications
// come out of the combinator and are never built by hand.
//
// COMBINATION:
//
// Two specifications are closed over two distinct parameter identities.
// Wrapping their expressions in a bare And node would produce a tree with
// two parameters - unevaluable against a single entity and untranslatable
// by a backend that binds one row to one parameter. The combinator instead
// allocates a fresh parameter and deep-clones both expressions onto it
// (expr.Rebind), so every output owns its nodes and the inputs remain
// independently usable. This holds for self-combination too: s.And(s)
// produces two independent clones sharing one fresh parameter.
//
// Specifications are immutable after construction. Evaluating or combining
// them concurrently from multiple goroutines is safe; the one exception is
// MemoCache, which documents its own locking expectations.
package spec
