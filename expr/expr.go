package expr

import (
	"fmt"

	"github.com/rcstanton/satis/value"
)

// Expr is the sealed interface over predicate-expression nodes.
// Only pointer node types in this package implement it.
type Expr interface {
	exprNode() // Marker method - seals the interface to this package
	String() string
}

// Operator identifies a comparison operator.
type Operator string

const (
	OpEq  Operator = "eq"
	OpNeq Operator = "neq"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
)

// Valid reports whether the operator is a member of the closed set.
func (op Operator) Valid() bool {
	switch op {
	case OpEq, OpNeq, OpLt, OpLte, OpGt, OpGte:
		return true
	default:
		return false
	}
}

// Ordered reports whether the operator requires ordered operands.
// eq and neq are defined for every value variant; the rest only for
// variants with a total order (int, string).
func (op Operator) Ordered() bool {
	switch op {
	case OpLt, OpLte, OpGt, OpGte:
		return true
	default:
		return false
	}
}

// Parameter is the placeholder for the entity under test.
//
// Identity is significant: the evaluator and the combinator compare
// Parameter nodes by pointer, never by name. Name exists for diagnostics,
// EntityType for construction-time type checking.
type Parameter struct {
	Name       string
	EntityType string
}

func (*Parameter) exprNode() {}

func (p *Parameter) String() string {
	return p.Name
}

// NewParameter allocates a fresh parameter.
// Every call returns a distinct identity, even for equal name and type.
func NewParameter(name, entityType string) *Parameter {
	return &Parameter{Name: name, EntityType: entityType}
}

// FieldAccess reads a named field off the value produced by Target.
//
// Target is usually the Parameter, but chained access over nested objects
// is allowed: FieldAccess(FieldAccess(p, "dims"), "width").
type FieldAccess struct {
	Target Expr
	Field  string
}

func (*FieldAccess) exprNode() {}

func (f *FieldAccess) String() string {
	return fmt.Sprintf("%s.%s", f.Target, f.Field)
}

// Field builds a FieldAccess on the given target.
func Field(target Expr, name string) *FieldAccess {
	return &FieldAccess{Target: target, Field: name}
}

// Comparison applies Op to the values produced by Left and Right.
type Comparison struct {
	Left  Expr
	Op    Operator
	Right Expr
}

func (*Comparison) exprNode() {}

func (c *Comparison) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Left, c.Op, c.Right)
}

// Compare builds a Comparison node.
func Compare(left Expr, op Operator, right Expr) *Comparison {
	return &Comparison{Left: left, Op: op, Right: right}
}

// Literal is a constant from the value union.
// Literals carry no parameter and may be shared between expressions.
type Literal struct {
	Value value.Value
}

func (*Literal) exprNode() {}

func (l *Literal) String() string {
	data, err := value.MarshalValue(l.Value)
	if err != nil {
		return fmt.Sprintf("<invalid literal: %v>", err)
	}
	return string(data)
}

// Lit builds a Literal node.
func Lit(v value.Value) *Literal {
	return &Literal{Value: v}
}

// And is the conjunction of two sub-expressions.
// Evaluation short-circuits: Right is not evaluated when Left is false.
type And struct {
	Left  Expr
	Right Expr
}

func (*And) exprNode() {}

func (a *And) String() string {
	return fmt.Sprintf("(%s AND %s)", a.Left, a.Right)
}

// Or is the disjunction of two sub-expressions.
// Evaluation short-circuits: Right is not evaluated when Left is true.
type Or struct {
	Left  Expr
	Right Expr
}

func (*Or) exprNode() {}

func (o *Or) String() string {
	return fmt.Sprintf("(%s OR %s)", o.Left, o.Right)
}

// Not negates its operand.
type Not struct {
	Operand Expr
}

func (*Not) exprNode() {}

func (n *Not) String() string {
	return fmt.Sprintf("(NOT %s)", n.Operand)
}
