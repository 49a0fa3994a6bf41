package spec

import (
	"errors"
	"fmt"
)

// TypeMismatchError reports an attempt to combine specifications over
// different entity types. Raised before any allocation happens; neither
// input is touched. Fatal and never retried.
type TypeMismatchError struct {
	// Op is the combination that was attempted (AND, OR).
	Op string

	// LeftType and RightType are the disagreeing entity types.
	LeftType  string
	RightType string
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("TYPE_MISMATCH: cannot %s specification over %q with specification over %q",
		e.Op, e.LeftType, e.RightType)
}

// IsTypeMismatch returns true if the error is a type mismatch.
// Uses errors.As to handle wrapped errors.
func IsTypeMismatch(err error) bool {
	var te *TypeMismatchError
	return errors.As(err, &te)
}
