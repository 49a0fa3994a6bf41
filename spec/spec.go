package spec

import (
	"fmt"
	"strings"

	"github.com/rcstanton/satis/expr"
	"github.com/rcstanton/satis/value"
)

// Specification is a named boolean business rule over one entity type.
//
// The zero value is not usable; construct through New, Where, or the
// combinators. Fields are unexported so the single-parameter invariant
// established at construction cannot be broken afterwards.
type Specification struct {
	name  string
	param *expr.Parameter
	expr  expr.Expr
}

// New wraps an expression and its parameter into a Specification.
//
// The expression must be closed over exactly the given parameter;
// a constant expression reaching no parameter is also accepted. Returns an
// *expr.InvariantError otherwise.
func New(name string, param *expr.Parameter, e expr.Expr) (*Specification, error) {
	if param == nil {
		return nil, &expr.InvariantError{Message: "nil parameter"}
	}
	if err := expr.ValidateFor(e, param); err != nil {
		return nil, err
	}
	return &Specification{name: name, param: param, expr: e}, nil
}

// Where builds a leaf specification comparing one entity field against a
// literal: Where("Product", "price", expr.OpGt, value.Int(100)).
func Where(entityType, field string, op expr.Operator, lit value.Value) (*Specification, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("operator %q is not in the closed set", op)
	}
	param := expr.NewParameter(strings.ToLower(entityType), entityType)
	e := expr.Compare(expr.Field(param, field), op, expr.Lit(lit))

	name := fmt.Sprintf("%s %s %s", field, op, expr.Lit(lit))
	return New(name, param, e)
}

// MustWhere is like Where but panics on error.
// Use only in tests or with operators known to be valid.
func MustWhere(entityType, field string, op expr.Operator, lit value.Value) *Specification {
	s, err := Where(entityType, field, op, lit)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the diagnostic name. Composite names are synthesized from
// their inputs ("(A AND B)") and play no part in evaluation.
func (s *Specification) Name() string {
	return s.name
}

// Named returns a copy of the specification under a different diagnostic
// name. The expression and parameter are shared; both are immutable.
func (s *Specification) Named(name string) *Specification {
	return &Specification{name: name, param: s.param, expr: s.expr}
}

// EntityType returns the entity type this specification applies to.
func (s *Specification) EntityType() string {
	return s.param.EntityType
}

// Expr exposes the predicate expression - the translation contract.
// Backends may pattern-match on the expr variant set and rely on the
// single-parameter invariant without re-validating.
func (s *Specification) Expr() expr.Expr {
	return s.expr
}

// Param returns the parameter the expression is closed over.
func (s *Specification) Param() *expr.Parameter {
	return s.param
}

// IsSatisfiedBy evaluates the specification against an entity.
//
// Never fails for entities carrying every referenced field; a missing
// field surfaces as an *expr.EvaluationError (a programming or
// configuration error, not a recoverable condition).
func (s *Specification) IsSatisfiedBy(entity value.Object) (bool, error) {
	return expr.EvalBool(s.expr, s.param, entity)
}

// And returns the conjunction of two specifications.
// Delegates to the combinator; both inputs remain independently usable.
func (s *Specification) And(other *Specification) (*Specification, error) {
	return Combiner{}.And(s, other)
}

// Or returns the disjunction of two specifications.
func (s *Specification) Or(other *Specification) (*Specification, error) {
	return Combiner{}.Or(s, other)
}

// Not returns the negation of the specification.
func (s *Specification) Not() (*Specification, error) {
	return Combiner{}.Not(s)
}

// String returns the diagnostic name and rendered expression.
func (s *Specification) String() string {
	return fmt.Sprintf("%s: %s", s.name, s.expr)
}
