package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcstanton/satis/value"
)

func TestValidate_SingleParameter(t *testing.T) {
	p := NewParameter("p", "Product")
	e := &And{Left: priceAbove(p, 100), Right: priceAbove(p, 200)}
	assert.NoError(t, Validate(e))
}

func TestValidate_TwoIdentitiesRejected(t *testing.T) {
	a := NewParameter("a", "Product")
	b := NewParameter("b", "Product")
	e := &And{Left: priceAbove(a, 100), Right: priceAbove(b, 200)}

	err := Validate(e)
	require.Error(t, err)
	assert.True(t, IsInvariantError(err))

	var ie *InvariantError
	require.ErrorAs(t, err, &ie)
	assert.Len(t, ie.Parameters, 2)
}

func TestValidate_NilExpression(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.True(t, IsInvariantError(err))
}

func TestValidate_ConstantExpression(t *testing.T) {
	e := Compare(Lit(value.Int(1)), OpEq, Lit(value.Int(1)))
	assert.NoError(t, Validate(e))
}

func TestValidateFor(t *testing.T) {
	own := NewParameter("p", "Product")
	other := NewParameter("q", "Product")
	e := priceAbove(own, 100)

	assert.NoError(t, ValidateFor(e, own))

	err := ValidateFor(e, other)
	require.Error(t, err)
	assert.True(t, IsInvariantError(err))
}
