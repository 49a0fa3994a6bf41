package expr

import (
	"errors"
	"fmt"
)

// EvaluationErrorCode categorizes evaluation errors.
type EvaluationErrorCode string

const (
	// ErrCodeMissingField indicates a FieldAccess named a field absent on
	// the entity. A caller programming or configuration error.
	ErrCodeMissingField EvaluationErrorCode = "MISSING_FIELD"

	// ErrCodeOperandType indicates an operand had the wrong variant for the
	// operation (non-object field target, unordered operand to lt/gt,
	// non-boolean operand to a logical node).
	ErrCodeOperandType EvaluationErrorCode = "OPERAND_TYPE"

	// ErrCodeUnknownOperator indicates a Comparison carried an operator
	// outside the closed set.
	ErrCodeUnknownOperator EvaluationErrorCode = "UNKNOWN_OPERATOR"
)

// EvaluationError reports a failure while evaluating an expression against
// an entity. Evaluation is pure and deterministic, so these errors are
// never retried; they propagate synchronously to the caller.
type EvaluationError struct {
	// Code identifies the error category.
	Code EvaluationErrorCode

	// Field is the field name involved, when the error concerns one.
	Field string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMissingField returns true if the error is a missing-field evaluation
// error. Uses errors.As to handle wrapped errors.
func IsMissingField(err error) bool {
	var ee *EvaluationError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeMissingField
	}
	return false
}

// InvariantError reports an expression holding more than one distinct
// Parameter identity, or a parameter foreign to its owning specification.
// It is unreachable through the public spec constructors; seeing one means
// a bug in the engine, not bad caller input.
type InvariantError struct {
	// Parameters holds the distinct identities found, when known.
	Parameters []*Parameter

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	if len(e.Parameters) > 0 {
		return fmt.Sprintf("INVARIANT_VIOLATION: %s (distinct parameters=%d)", e.Message, len(e.Parameters))
	}
	return fmt.Sprintf("INVARIANT_VIOLATION: %s", e.Message)
}

// IsInvariantError returns true if the error is an invariant violation.
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
