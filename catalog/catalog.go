package catalog

import (
	"fmt"
	"sort"

	"github.com/rcstanton/satis/spec"
)

// Catalog holds the compiled rules of one catalog file set.
type Catalog struct {
	// Entity is the entity type every rule in the catalog applies to.
	Entity string

	rules map[string]*spec.Specification
}

// Rule returns the named specification.
func (c *Catalog) Rule(name string) (*spec.Specification, error) {
	s, ok := c.rules[name]
	if !ok {
		return nil, fmt.Errorf("catalog has no rule %q", name)
	}
	return s, nil
}

// Names returns all rule names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.rules))
	for name := range c.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of rules.
func (c *Catalog) Len() int {
	return len(c.rules)
}
