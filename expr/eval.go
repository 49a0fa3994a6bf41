package expr

import (
	"fmt"

	"github.com/rcstanton/satis/value"
)

// EvalBool evaluates a predicate expression against an entity and requires
// a boolean result. This is the path behind Specification.IsSatisfiedBy.
func EvalBool(e Expr, param *Parameter, entity value.Object) (bool, error) {
	result, err := Eval(e, param, entity)
	if err != nil {
		return false, err
	}
	b, ok := result.(value.Bool)
	if !ok {
		return false, &EvaluationError{
			Code:    ErrCodeOperandType,
			Message: fmt.Sprintf("expression produced %s, want bool", value.TypeName(result)),
		}
	}
	return bool(b), nil
}

// Eval interprets an expression bottom-up against an entity.
//
// Semantics per node:
//   - Parameter: the entity itself.
//   - FieldAccess: field lookup on the target's object value; a missing
//     field is an EvaluationError, not a silent false.
//   - Comparison: operator over the two evaluated operands. eq/neq are
//     defined for every variant; lt/lte/gt/gte only for ordered ones.
//   - And/Or: short-circuit, left to right. Predicates are assumed pure,
//     so skipping the right operand is unobservable; it also skips
//     pointless field lookups.
//   - Not: boolean negation.
//
// Evaluation never mutates the expression or the entity.
func Eval(e Expr, param *Parameter, entity value.Object) (value.Value, error) {
	switch n := e.(type) {
	case *Parameter:
		if n != param {
			// Unreachable through spec-constructed expressions.
			return nil, &InvariantError{
				Message: fmt.Sprintf("expression reaches foreign parameter %q", n.Name),
			}
		}
		return entity, nil

	case *Literal:
		return n.Value, nil

	case *FieldAccess:
		target, err := Eval(n.Target, param, entity)
		if err != nil {
			return nil, err
		}
		obj, ok := target.(value.Object)
		if !ok {
			return nil, &EvaluationError{
				Code:    ErrCodeOperandType,
				Field:   n.Field,
				Message: fmt.Sprintf("field access on %s value", value.TypeName(target)),
			}
		}
		fieldValue, exists := obj[n.Field]
		if !exists {
			return nil, &EvaluationError{
				Code:    ErrCodeMissingField,
				Field:   n.Field,
				Message: "entity has no such field",
			}
		}
		return fieldValue, nil

	case *Comparison:
		return evalComparison(n, param, entity)

	case *And:
		left, err := EvalBool(n.Left, param, entity)
		if err != nil {
			return nil, err
		}
		if !left {
			return value.Bool(false), nil
		}
		right, err := EvalBool(n.Right, param, entity)
		if err != nil {
			return nil, err
		}
		return value.Bool(right), nil

	case *Or:
		left, err := EvalBool(n.Left, param, entity)
		if err != nil {
			return nil, err
		}
		if left {
			return value.Bool(true), nil
		}
		right, err := EvalBool(n.Right, param, entity)
		if err != nil {
			return nil, err
		}
		return value.Bool(right), nil

	case *Not:
		operand, err := EvalBool(n.Operand, param, entity)
		if err != nil {
			return nil, err
		}
		return value.Bool(!operand), nil

	default:
		return nil, fmt.Errorf("unknown expression node: %T", e)
	}
}

func evalComparison(c *Comparison, param *Parameter, entity value.Object) (value.Value, error) {
	left, err := Eval(c.Left, param, entity)
	if err != nil {
		return nil, err
	}
	right, err := Eval(c.Right, param, entity)
	if err != nil {
		return nil, err
	}

	switch c.Op {
	case OpEq:
		return value.Bool(value.Equal(left, right)), nil
	case OpNeq:
		return value.Bool(!value.Equal(left, right)), nil
	case OpLt, OpLte, OpGt, OpGte:
		cmp, err := value.Compare(left, right)
		if err != nil {
			return nil, &EvaluationError{
				Code:    ErrCodeOperandType,
				Message: fmt.Sprintf("%s: %v", c.Op, err),
			}
		}
		switch c.Op {
		case OpLt:
			return value.Bool(cmp < 0), nil
		case OpLte:
			return value.Bool(cmp <= 0), nil
		case OpGt:
			return value.Bool(cmp > 0), nil
		default:
			return value.Bool(cmp >= 0), nil
		}
	default:
		return nil, &EvaluationError{
			Code:    ErrCodeUnknownOperator,
			Message: fmt.Sprintf("operator %q is not in the closed set", c.Op),
		}
	}
}
