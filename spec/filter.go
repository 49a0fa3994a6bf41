package spec

import (
	"fmt"

	"github.com/rcstanton/satis/value"
)

// Filter returns the entities satisfying the specification, preserving
// input order. An empty result is a valid outcome, not an error.
//
// The first evaluation error aborts the scan: a missing field on one
// entity indicates a schema problem, not a skippable row.
func Filter(entities []value.Object, s *Specification) ([]value.Object, error) {
	var matched []value.Object
	for i, entity := range entities {
		ok, err := s.IsSatisfiedBy(entity)
		if err != nil {
			return nil, fmt.Errorf("filter %q: entity %d: %w", s.Name(), i, err)
		}
		if ok {
			matched = append(matched, entity)
		}
	}
	return matched, nil
}
