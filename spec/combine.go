package spec

import (
	"fmt"

	"github.com/rcstanton/satis/expr"
)

// combineOp identifies a combination for naming and cache keying.
type combineOp string

const (
	opAnd combineOp = "AND"
	opOr  combineOp = "OR"
	opNot combineOp = "NOT"
)

// Combiner produces composite specifications. The zero value is stateless
// and usable directly; attach a CombineCache with NewCombiner to memoize
// repeated combinations (catalog loading combines the same subtrees often).
type Combiner struct {
	cache CombineCache
}

// Option configures a Combiner.
type Option func(*Combiner)

// WithCache injects a memo cache for composition results.
// The cache is explicit state owned by the caller, never a package global.
func WithCache(c CombineCache) Option {
	return func(cb *Combiner) {
		cb.cache = c
	}
}

// NewCombiner creates a Combiner with the given options.
func NewCombiner(opts ...Option) Combiner {
	var c Combiner
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// And returns a specification satisfied exactly when both inputs are.
func (c Combiner) And(a, b *Specification) (*Specification, error) {
	return c.combine(opAnd, a, b)
}

// Or returns a specification satisfied exactly when either input is.
func (c Combiner) Or(a, b *Specification) (*Specification, error) {
	return c.combine(opOr, a, b)
}

// Not returns a specification satisfied exactly when the input is not.
//
// The operand's expression is re-closed over a fresh parameter even though
// a bare Not wrapper would evaluate identically: every combinator output
// owns its nodes outright, composites included, so no later operation can
// alias state between specifications.
func (c Combiner) Not(a *Specification) (*Specification, error) {
	return c.combine(opNot, a, nil)
}

// combine is the substitution pass shared by all three operations.
//
// Steps, for inputs A (parameter pA, expression eA) and B (pB, eB):
//  1. Allocate one fresh parameter pC. Never aliases pA or pB.
//  2. Deep-clone eA substituting pA with pC (expr.Rebind).
//  3. Same for eB with pB - even when A and B are the same Specification,
//     which yields two structurally independent clones of one source tree.
//  4. Wrap the clones in And/Or, or the single clone in Not.
//
// Skipping steps 2-3 and wrapping eA/eB directly would put two parameter
// identities in one tree, which neither the evaluator nor a query
// translator can bind to a single entity.
func (c Combiner) combine(op combineOp, a, b *Specification) (*Specification, error) {
	if a == nil || (op != opNot && b == nil) {
		return nil, fmt.Errorf("combine %s: nil specification", op)
	}
	if op != opNot && a.param.EntityType != b.param.EntityType {
		return nil, &TypeMismatchError{
			Op:        string(op),
			LeftType:  a.param.EntityType,
			RightType: b.param.EntityType,
		}
	}

	key, err := c.cacheKey(op, a, b)
	if err != nil {
		return nil, err
	}
	if key != "" {
		if cached, ok := c.cache.Get(key); ok {
			return cached, nil
		}
	}

	fresh := expr.NewParameter(a.param.Name, a.param.EntityType)

	left, err := expr.Rebind(a.expr, a.param, fresh)
	if err != nil {
		return nil, fmt.Errorf("combine %s: rebind left: %w", op, err)
	}

	var combined expr.Expr
	var name string
	switch op {
	case opNot:
		combined = &expr.Not{Operand: left}
		name = fmt.Sprintf("(NOT %s)", a.name)
	default:
		right, err := expr.Rebind(b.expr, b.param, fresh)
		if err != nil {
			return nil, fmt.Errorf("combine %s: rebind right: %w", op, err)
		}
		if op == opAnd {
			combined = &expr.And{Left: left, Right: right}
		} else {
			combined = &expr.Or{Left: left, Right: right}
		}
		name = fmt.Sprintf("(%s %s %s)", a.name, op, b.name)
	}

	result := &Specification{name: name, param: fresh, expr: combined}

	if key != "" {
		c.cache.Put(key, result)
	}
	return result, nil
}

// cacheKey derives the memo key from the operation and the operand
// expression fingerprints. Returns "" when no cache is attached.
func (c Combiner) cacheKey(op combineOp, a, b *Specification) (string, error) {
	if c.cache == nil {
		return "", nil
	}
	fa, err := expr.Fingerprint(a.expr)
	if err != nil {
		return "", fmt.Errorf("combine %s: fingerprint left: %w", op, err)
	}
	if op == opNot {
		return fmt.Sprintf("%s|%s", op, fa), nil
	}
	fb, err := expr.Fingerprint(b.expr)
	if err != nil {
		return "", fmt.Errorf("combine %s: fingerprint right: %w", op, err)
	}
	return fmt.Sprintf("%s|%s|%s", op, fa, fb), nil
}
