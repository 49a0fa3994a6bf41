package exprsql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rcstanton/satis/expr"
	"github.com/rcstanton/satis/spec"
	"github.com/rcstanton/satis/value"
)

// TranslationErrorCode categorizes translation failures.
type TranslationErrorCode string

const (
	// ErrCodeOutsideFragment indicates an expression shape the SQL fragment
	// cannot express (nested field access, column-free comparison, ...).
	ErrCodeOutsideFragment TranslationErrorCode = "OUTSIDE_FRAGMENT"

	// ErrCodeBadIdentifier indicates a field name that is not a safe SQL
	// identifier.
	ErrCodeBadIdentifier TranslationErrorCode = "BAD_IDENTIFIER"

	// ErrCodeBadValue indicates a literal with no SQL parameter form.
	ErrCodeBadValue TranslationErrorCode = "BAD_VALUE"
)

// TranslationError reports an expression that cannot be compiled to SQL.
type TranslationError struct {
	Code    TranslationErrorCode
	Message string
}

// Error implements the error interface.
func (e *TranslationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsOutsideFragment returns true if the error means the expression is
// valid but not SQL-translatable. Uses errors.As to handle wrapped errors.
func IsOutsideFragment(err error) bool {
	var te *TranslationError
	if errors.As(err, &te) {
		return te.Code == ErrCodeOutsideFragment
	}
	return false
}

// Compiler compiles specifications to SQL WHERE fragments.
type Compiler struct{}

// NewCompiler creates a Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile translates a specification's expression into a WHERE fragment
// (without the WHERE keyword) and its ordered parameters.
func (c *Compiler) Compile(s *spec.Specification) (string, []any, error) {
	if s == nil {
		return "", nil, fmt.Errorf("cannot compile nil specification")
	}
	return c.compileExpr(s.Expr())
}

// compileExpr compiles one boolean-valued node.
func (c *Compiler) compileExpr(e expr.Expr) (string, []any, error) {
	switch n := e.(type) {
	case *expr.Comparison:
		return c.compileComparison(n)

	case *expr.And:
		return c.compileBinary(n.Left, n.Right, "AND")

	case *expr.Or:
		return c.compileBinary(n.Left, n.Right, "OR")

	case *expr.Not:
		sql, params, err := c.compileExpr(n.Operand)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("NOT (%s)", sql), params, nil

	case *expr.Parameter, *expr.FieldAccess, *expr.Literal:
		return "", nil, &TranslationError{
			Code:    ErrCodeOutsideFragment,
			Message: fmt.Sprintf("%T is not a boolean predicate position", e),
		}

	default:
		return "", nil, fmt.Errorf("unknown expression node: %T", e)
	}
}

func (c *Compiler) compileBinary(left, right expr.Expr, op string) (string, []any, error) {
	leftSQL, leftParams, err := c.compileExpr(left)
	if err != nil {
		return "", nil, err
	}
	rightSQL, rightParams, err := c.compileExpr(right)
	if err != nil {
		return "", nil, err
	}
	sql := fmt.Sprintf("(%s %s %s)", leftSQL, op, rightSQL)
	return sql, append(leftParams, rightParams...), nil
}

// compileComparison compiles "column op literal" or "literal op column".
// The literal side is always parameterized, never interpolated.
func (c *Compiler) compileComparison(cmp *expr.Comparison) (string, []any, error) {
	sqlOp, ok := sqlOperator(cmp.Op)
	if !ok {
		return "", nil, &TranslationError{
			Code:    ErrCodeOutsideFragment,
			Message: fmt.Sprintf("operator %q has no SQL form", cmp.Op),
		}
	}

	// Column on the left is the common shape; a literal-column flip is
	// normalized by mirroring the operator.
	column, colErr := c.columnName(cmp.Left)
	if colErr == nil {
		return c.columnComparison(column, sqlOp, cmp.Op, cmp.Right)
	}
	if column, err := c.columnName(cmp.Right); err == nil {
		return c.columnComparison(column, mirrorOperator(sqlOp), mirrorExprOperator(cmp.Op), cmp.Left)
	}
	return "", nil, colErr
}

func (c *Compiler) columnComparison(column, sqlOp string, op expr.Operator, operand expr.Expr) (string, []any, error) {
	lit, ok := operand.(*expr.Literal)
	if !ok {
		return "", nil, &TranslationError{
			Code:    ErrCodeOutsideFragment,
			Message: fmt.Sprintf("comparison operand %T is not a literal", operand),
		}
	}

	// NULL comparisons have dedicated SQL syntax; ordering against NULL
	// is meaningless and rejected.
	if _, isNull := lit.Value.(value.Null); isNull {
		switch op {
		case expr.OpEq:
			return fmt.Sprintf("%s IS NULL", column), nil, nil
		case expr.OpNeq:
			return fmt.Sprintf("%s IS NOT NULL", column), nil, nil
		default:
			return "", nil, &TranslationError{
				Code:    ErrCodeBadValue,
				Message: fmt.Sprintf("cannot order column %s against NULL", column),
			}
		}
	}

	param, err := sqlParam(lit.Value)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s %s ?", column, sqlOp), []any{param}, nil
}

// columnName resolves a FieldAccess-on-Parameter node to a validated
// column name. Nested access is outside the fragment.
func (c *Compiler) columnName(e expr.Expr) (string, error) {
	fa, ok := e.(*expr.FieldAccess)
	if !ok {
		return "", &TranslationError{
			Code:    ErrCodeOutsideFragment,
			Message: fmt.Sprintf("%T is not a column reference", e),
		}
	}
	if _, onParam := fa.Target.(*expr.Parameter); !onParam {
		return "", &TranslationError{
			Code:    ErrCodeOutsideFragment,
			Message: fmt.Sprintf("nested field access %q has no column form", fa),
		}
	}
	if !validIdentifier(fa.Field) {
		return "", &TranslationError{
			Code:    ErrCodeBadIdentifier,
			Message: fmt.Sprintf("field %q is not a valid SQL identifier", fa.Field),
		}
	}
	return fa.Field, nil
}

// sqlOperator maps the closed operator set to SQL.
func sqlOperator(op expr.Operator) (string, bool) {
	switch op {
	case expr.OpEq:
		return "=", true
	case expr.OpNeq:
		return "<>", true
	case expr.OpLt:
		return "<", true
	case expr.OpLte:
		return "<=", true
	case expr.OpGt:
		return ">", true
	case expr.OpGte:
		return ">=", true
	default:
		return "", false
	}
}

// mirrorOperator flips an SQL comparison for swapped operands.
func mirrorOperator(sqlOp string) string {
	switch sqlOp {
	case "<":
		return ">"
	case "<=":
		return ">="
	case ">":
		return "<"
	case ">=":
		return "<="
	default:
		return sqlOp // = and <> are symmetric
	}
}

func mirrorExprOperator(op expr.Operator) expr.Operator {
	switch op {
	case expr.OpLt:
		return expr.OpGt
	case expr.OpLte:
		return expr.OpGte
	case expr.OpGt:
		return expr.OpLt
	case expr.OpGte:
		return expr.OpLte
	default:
		return op
	}
}

// sqlParam converts a literal value to a driver parameter.
// Arrays and objects have no direct SQL parameter form.
func sqlParam(v value.Value) (any, error) {
	switch val := v.(type) {
	case value.String:
		return string(val), nil
	case value.Int:
		return int64(val), nil
	case value.Bool:
		return bool(val), nil
	default:
		return nil, &TranslationError{
			Code:    ErrCodeBadValue,
			Message: fmt.Sprintf("%s literal has no SQL parameter form", value.TypeName(v)),
		}
	}
}

// validIdentifier reports whether s is a plain SQL identifier:
// ASCII letter or underscore first, letters/digits/underscores after.
func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return !isReservedWord(s)
}

// isReservedWord rejects the SQL keywords most likely to appear as field
// names by accident. Quoting would be the general fix, but the fragment
// keeps to plain identifiers like the rest of the schema tooling.
func isReservedWord(s string) bool {
	switch strings.ToUpper(s) {
	case "SELECT", "FROM", "WHERE", "AND", "OR", "NOT", "NULL", "ORDER", "BY", "GROUP", "TABLE", "DROP", "INSERT", "UPDATE", "DELETE":
		return true
	default:
		return false
	}
}
