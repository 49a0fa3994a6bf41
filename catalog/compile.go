package catalog

import (
	"fmt"
	"sort"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/rcstanton/satis/expr"
	"github.com/rcstanton/satis/spec"
	"github.com/rcstanton/satis/value"
)

// CatalogError represents a catalog compilation error with source position.
type CatalogError struct {
	Rule    string
	Message string
	Pos     token.Pos
}

func (e *CatalogError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: rule %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Rule, e.Message)
	}
	return fmt.Sprintf("rule %s: %s", e.Rule, e.Message)
}

// rawRule is an uncompiled rule body. Exactly one of the shapes is set.
type rawRule struct {
	pos token.Pos

	// leaf
	field string
	op    expr.Operator
	val   value.Value
	leaf  bool

	// composites
	all []string
	any []string
	not string
}

// Compile parses a CUE value holding the catalog struct into a Catalog.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the catalog struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`catalog: {entity: "Product", rules: {...}}`)
//	cat, err := catalog.Compile(v.LookupPath(cue.ParsePath("catalog")))
func Compile(v cue.Value) (*Catalog, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	entityVal := v.LookupPath(cue.ParsePath("entity"))
	if !entityVal.Exists() {
		return nil, &CatalogError{
			Rule:    "entity",
			Message: "entity is required",
			Pos:     v.Pos(),
		}
	}
	entity, err := entityVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}

	rulesVal := v.LookupPath(cue.ParsePath("rules"))
	if !rulesVal.Exists() {
		return nil, &CatalogError{
			Rule:    "rules",
			Message: "rules is required",
			Pos:     v.Pos(),
		}
	}

	raw, err := parseRules(rulesVal)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, &CatalogError{
			Rule:    "rules",
			Message: "at least one rule is required",
			Pos:     rulesVal.Pos(),
		}
	}

	return resolve(entity, raw)
}

// parseRules collects raw rule bodies without resolving references, so
// rules may reference each other in any order.
func parseRules(v cue.Value) (map[string]*rawRule, error) {
	raw := make(map[string]*rawRule)

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		rule, err := parseRule(name, iter.Value())
		if err != nil {
			return nil, err
		}
		raw[name] = rule
	}
	return raw, nil
}

// parseRule parses one rule body. A rule is either a leaf comparison
// {field, op, value} or exactly one of the composite forms
// {all: [...]}, {any: [...]}, {not: "ref"}.
func parseRule(name string, v cue.Value) (*rawRule, error) {
	rule := &rawRule{pos: v.Pos()}

	shapes := 0
	if v.LookupPath(cue.ParsePath("field")).Exists() {
		shapes++
		rule.leaf = true
	}
	for _, label := range []string{"all", "any", "not"} {
		if v.LookupPath(cue.ParsePath(label)).Exists() {
			shapes++
		}
	}
	if shapes != 1 {
		return nil, &CatalogError{
			Rule:    name,
			Message: "rule must have exactly one of field, all, any, not",
			Pos:     v.Pos(),
		}
	}

	if rule.leaf {
		return parseLeaf(name, v, rule)
	}

	if allVal := v.LookupPath(cue.ParsePath("all")); allVal.Exists() {
		refs, err := parseRefs(name, "all", allVal)
		if err != nil {
			return nil, err
		}
		rule.all = refs
		return rule, nil
	}
	if anyVal := v.LookupPath(cue.ParsePath("any")); anyVal.Exists() {
		refs, err := parseRefs(name, "any", anyVal)
		if err != nil {
			return nil, err
		}
		rule.any = refs
		return rule, nil
	}

	notVal := v.LookupPath(cue.ParsePath("not"))
	ref, err := notVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	rule.not = ref
	return rule, nil
}

func parseLeaf(name string, v cue.Value, rule *rawRule) (*rawRule, error) {
	field, err := v.LookupPath(cue.ParsePath("field")).String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	rule.field = field

	opVal := v.LookupPath(cue.ParsePath("op"))
	if !opVal.Exists() {
		return nil, &CatalogError{
			Rule:    name,
			Message: "leaf rule requires op",
			Pos:     v.Pos(),
		}
	}
	opStr, err := opVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	op := expr.Operator(opStr)
	if !op.Valid() {
		return nil, &CatalogError{
			Rule:    name,
			Message: fmt.Sprintf("unknown operator %q", opStr),
			Pos:     opVal.Pos(),
		}
	}
	rule.op = op

	litVal := v.LookupPath(cue.ParsePath("value"))
	if !litVal.Exists() {
		return nil, &CatalogError{
			Rule:    name,
			Message: "leaf rule requires value",
			Pos:     v.Pos(),
		}
	}
	lit, err := literalValue(name, litVal)
	if err != nil {
		return nil, err
	}
	rule.val = lit
	return rule, nil
}

// parseRefs parses a non-empty list of rule name references.
func parseRefs(name, label string, v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var refs []string
	for iter.Next() {
		ref, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		refs = append(refs, ref)
	}
	if len(refs) < 2 {
		return nil, &CatalogError{
			Rule:    name,
			Message: fmt.Sprintf("%s requires at least two rule references", label),
			Pos:     v.Pos(),
		}
	}
	return refs, nil
}

// literalValue converts a concrete CUE scalar to a literal value.
// Floats are forbidden to keep rules deterministic.
func literalValue(name string, v cue.Value) (value.Value, error) {
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return value.String(s), nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return value.Int(i), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return value.Bool(b), nil
	case cue.NullKind:
		return value.Null{}, nil
	case cue.FloatKind, cue.NumberKind:
		return nil, &CatalogError{
			Rule:    name,
			Message: "float values are forbidden - use int instead",
			Pos:     v.Pos(),
		}
	default:
		return nil, &CatalogError{
			Rule:    name,
			Message: fmt.Sprintf("unsupported value kind: %v", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

// resolver compiles raw rules into specifications, following references
// depth-first with cycle detection.
type resolver struct {
	entity   string
	raw      map[string]*rawRule
	done     map[string]*spec.Specification
	visiting map[string]bool
	combiner spec.Combiner
}

func resolve(entity string, raw map[string]*rawRule) (*Catalog, error) {
	r := &resolver{
		entity:   entity,
		raw:      raw,
		done:     make(map[string]*spec.Specification, len(raw)),
		visiting: make(map[string]bool),
		combiner: spec.NewCombiner(spec.WithCache(spec.NewMemoCache())),
	}

	// Sorted order keeps error reporting deterministic across runs.
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := r.rule(name); err != nil {
			return nil, err
		}
	}
	return &Catalog{Entity: entity, rules: r.done}, nil
}

func (r *resolver) rule(name string) (*spec.Specification, error) {
	if s, ok := r.done[name]; ok {
		return s, nil
	}
	raw, ok := r.raw[name]
	if !ok {
		return nil, &CatalogError{
			Rule:    name,
			Message: "reference to unknown rule",
		}
	}
	if r.visiting[name] {
		return nil, &CatalogError{
			Rule:    name,
			Message: "rule references form a cycle",
			Pos:     raw.pos,
		}
	}
	r.visiting[name] = true
	defer delete(r.visiting, name)

	s, err := r.compile(name, raw)
	if err != nil {
		return nil, err
	}
	r.done[name] = s
	return s, nil
}

func (r *resolver) compile(name string, raw *rawRule) (*spec.Specification, error) {
	switch {
	case raw.leaf:
		s, err := spec.Where(r.entity, raw.field, raw.op, raw.val)
		if err != nil {
			return nil, &CatalogError{
				Rule:    name,
				Message: err.Error(),
				Pos:     raw.pos,
			}
		}
		return s.Named(name), nil

	case raw.all != nil:
		return r.fold(name, raw, raw.all, r.combiner.And)

	case raw.any != nil:
		return r.fold(name, raw, raw.any, r.combiner.Or)

	default:
		operand, err := r.rule(raw.not)
		if err != nil {
			return nil, err
		}
		s, err := r.combiner.Not(operand)
		if err != nil {
			return nil, &CatalogError{
				Rule:    name,
				Message: err.Error(),
				Pos:     raw.pos,
			}
		}
		return s.Named(name), nil
	}
}

// fold combines referenced rules left to right: [a, b, c] becomes
// ((a OP b) OP c).
func (r *resolver) fold(name string, raw *rawRule, refs []string, combine func(a, b *spec.Specification) (*spec.Specification, error)) (*spec.Specification, error) {
	acc, err := r.rule(refs[0])
	if err != nil {
		return nil, err
	}
	for _, ref := range refs[1:] {
		next, err := r.rule(ref)
		if err != nil {
			return nil, err
		}
		acc, err = combine(acc, next)
		if err != nil {
			return nil, &CatalogError{
				Rule:    name,
				Message: err.Error(),
				Pos:     raw.pos,
			}
		}
	}
	return acc.Named(name), nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	firstErr := errs[0]
	if positions := cueerrors.Positions(firstErr); len(positions) > 0 {
		return &CatalogError{
			Rule:    "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
