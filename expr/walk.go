package expr

import "fmt"

// Rebind returns a deep structural clone of e with every occurrence of the
// parameter `from` replaced by `to`. The input tree is never mutated; the
// clone shares no mutable nodes with it. Literal nodes are shared by
// reference - they are immutable and carry no parameter.
//
// Rebind is the substitution pass behind specification composition: each
// input expression is closed over its own parameter, and combining them
// requires both to be re-closed over one fresh parameter.
func Rebind(e Expr, from, to *Parameter) (Expr, error) {
	switch n := e.(type) {
	case *Parameter:
		if n == from {
			return to, nil
		}
		// A foreign parameter identity here means the source expression
		// already violated the single-parameter invariant.
		return nil, &InvariantError{
			Message: fmt.Sprintf("parameter %q is not the expression's own parameter", n.Name),
		}
	case *Literal:
		return n, nil
	case *FieldAccess:
		target, err := Rebind(n.Target, from, to)
		if err != nil {
			return nil, err
		}
		return &FieldAccess{Target: target, Field: n.Field}, nil
	case *Comparison:
		left, err := Rebind(n.Left, from, to)
		if err != nil {
			return nil, err
		}
		right, err := Rebind(n.Right, from, to)
		if err != nil {
			return nil, err
		}
		return &Comparison{Left: left, Op: n.Op, Right: right}, nil
	case *And:
		left, err := Rebind(n.Left, from, to)
		if err != nil {
			return nil, err
		}
		right, err := Rebind(n.Right, from, to)
		if err != nil {
			return nil, err
		}
		return &And{Left: left, Right: right}, nil
	case *Or:
		left, err := Rebind(n.Left, from, to)
		if err != nil {
			return nil, err
		}
		right, err := Rebind(n.Right, from, to)
		if err != nil {
			return nil, err
		}
		return &Or{Left: left, Right: right}, nil
	case *Not:
		operand, err := Rebind(n.Operand, from, to)
		if err != nil {
			return nil, err
		}
		return &Not{Operand: operand}, nil
	default:
		return nil, fmt.Errorf("unknown expression node: %T", e)
	}
}

// Parameters returns the distinct Parameter identities reachable from e,
// in first-encounter order of a left-to-right depth-first walk.
func Parameters(e Expr) []*Parameter {
	var params []*Parameter
	seen := make(map[*Parameter]bool)

	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *Parameter:
			if !seen[n] {
				seen[n] = true
				params = append(params, n)
			}
		case *Literal:
			// no children
		case *FieldAccess:
			walk(n.Target)
		case *Comparison:
			walk(n.Left)
			walk(n.Right)
		case *And:
			walk(n.Left)
			walk(n.Right)
		case *Or:
			walk(n.Left)
			walk(n.Right)
		case *Not:
			walk(n.Operand)
		}
	}
	walk(e)

	return params
}
