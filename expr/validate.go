package expr

import "fmt"

// Validate checks the single-parameter invariant on an expression.
//
// A well-formed expression reaches exactly one distinct Parameter identity
// (a constant expression reaching zero is also accepted). Returns an
// *InvariantError listing the distinct identities otherwise.
//
// Backends consuming the translation contract may rely on the spec package
// having validated every Specification it produces and skip re-validation.
// Validate is a pure function with no side effects.
func Validate(e Expr) error {
	if e == nil {
		return &InvariantError{Message: "nil expression"}
	}

	params := Parameters(e)
	if len(params) > 1 {
		return &InvariantError{
			Parameters: params,
			Message:    "expression reaches more than one parameter identity",
		}
	}
	return nil
}

// ValidateFor checks that e is closed over exactly the given parameter:
// the single-parameter invariant holds and the one reachable identity is p.
func ValidateFor(e Expr, p *Parameter) error {
	if err := Validate(e); err != nil {
		return err
	}
	params := Parameters(e)
	if len(params) == 1 && params[0] != p {
		return &InvariantError{
			Parameters: params,
			Message:    fmt.Sprintf("expression is closed over parameter %q, not %q", params[0].Name, p.Name),
		}
	}
	return nil
}
