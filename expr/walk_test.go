package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcstanton/satis/value"
)

func priceAbove(p *Parameter, n int64) Expr {
	return Compare(Field(p, "price"), OpGt, Lit(value.Int(n)))
}

func TestRebind_SubstitutesParameter(t *testing.T) {
	from := NewParameter("a", "Product")
	to := NewParameter("c", "Product")

	rebound, err := Rebind(priceAbove(from, 100), from, to)
	require.NoError(t, err)

	params := Parameters(rebound)
	require.Len(t, params, 1)
	assert.Same(t, to, params[0])
}

func TestRebind_DoesNotMutateSource(t *testing.T) {
	from := NewParameter("a", "Product")
	to := NewParameter("c", "Product")
	source := priceAbove(from, 100)

	rebound, err := Rebind(source, from, to)
	require.NoError(t, err)

	// Source still reaches its own parameter.
	params := Parameters(source)
	require.Len(t, params, 1)
	assert.Same(t, from, params[0])

	// The clone shares no non-literal nodes with the source.
	assert.NotSame(t, source, rebound)
	srcCmp := source.(*Comparison)
	newCmp := rebound.(*Comparison)
	assert.NotSame(t, srcCmp.Left, newCmp.Left)

	// Literals are immutable and may alias.
	assert.Same(t, srcCmp.Right, newCmp.Right)
}

func TestRebind_DeepTree(t *testing.T) {
	from := NewParameter("a", "Product")
	to := NewParameter("c", "Product")

	source := &Or{
		Left: &And{
			Left:  priceAbove(from, 100),
			Right: Compare(Field(from, "category"), OpEq, Lit(value.String("Electronics"))),
		},
		Right: &Not{Operand: Compare(Field(Field(from, "dims"), "width"), OpLt, Lit(value.Int(10)))},
	}

	rebound, err := Rebind(source, from, to)
	require.NoError(t, err)

	params := Parameters(rebound)
	require.Len(t, params, 1)
	assert.Same(t, to, params[0])

	// Source untouched.
	params = Parameters(source)
	require.Len(t, params, 1)
	assert.Same(t, from, params[0])
}

func TestRebind_ForeignParameter(t *testing.T) {
	own := NewParameter("a", "Product")
	foreign := NewParameter("b", "Product")
	to := NewParameter("c", "Product")

	// Expression over `foreign`, substitution asked for `own`.
	_, err := Rebind(priceAbove(foreign, 1), own, to)
	require.Error(t, err)
	assert.True(t, IsInvariantError(err))
}

func TestParameters_Distinct(t *testing.T) {
	p := NewParameter("a", "Product")
	e := &And{Left: priceAbove(p, 1), Right: priceAbove(p, 2)}

	params := Parameters(e)
	require.Len(t, params, 1)
	assert.Same(t, p, params[0])
}

func TestParameters_TwoIdentities(t *testing.T) {
	a := NewParameter("a", "Product")
	b := NewParameter("b", "Product")
	e := &And{Left: priceAbove(a, 1), Right: priceAbove(b, 2)}

	assert.Len(t, Parameters(e), 2)
}

func TestParameters_ConstantExpression(t *testing.T) {
	e := Compare(Lit(value.Int(1)), OpEq, Lit(value.Int(1)))
	assert.Empty(t, Parameters(e))
}
