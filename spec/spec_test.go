package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcstanton/satis/expr"
	"github.com/rcstanton/satis/value"
)

func electronicsEntity() value.Object {
	return value.Object{
		"price":    value.Int(150),
		"category": value.String("Electronics"),
		"in_stock": value.Bool(true),
	}
}

func TestWhere_LeafSpecification(t *testing.T) {
	s, err := Where("Product", "price", expr.OpGt, value.Int(100))
	require.NoError(t, err)

	assert.Equal(t, "Product", s.EntityType())
	assert.Equal(t, "price gt 100", s.Name())

	ok, err := s.IsSatisfiedBy(electronicsEntity())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWhere_InvalidOperator(t *testing.T) {
	_, err := Where("Product", "price", expr.Operator("like"), value.Int(1))
	require.Error(t, err)
}

func TestNew_ValidatesParameterOwnership(t *testing.T) {
	own := expr.NewParameter("p", "Product")
	foreign := expr.NewParameter("q", "Product")
	e := expr.Compare(expr.Field(foreign, "price"), expr.OpGt, expr.Lit(value.Int(1)))

	_, err := New("bad", own, e)
	require.Error(t, err)
	assert.True(t, expr.IsInvariantError(err))
}

func TestNew_RejectsTwoParameterIdentities(t *testing.T) {
	a := expr.NewParameter("a", "Product")
	b := expr.NewParameter("b", "Product")
	e := &expr.And{
		Left:  expr.Compare(expr.Field(a, "price"), expr.OpGt, expr.Lit(value.Int(1))),
		Right: expr.Compare(expr.Field(b, "price"), expr.OpLt, expr.Lit(value.Int(9))),
	}

	_, err := New("bad", a, e)
	require.Error(t, err)
	assert.True(t, expr.IsInvariantError(err))
}

func TestNew_AcceptsConstantExpression(t *testing.T) {
	p := expr.NewParameter("p", "Product")
	e := expr.Compare(expr.Lit(value.Int(1)), expr.OpEq, expr.Lit(value.Int(1)))

	s, err := New("always", p, e)
	require.NoError(t, err)

	ok, err := s.IsSatisfiedBy(value.Object{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsSatisfiedBy_MissingField(t *testing.T) {
	s := MustWhere("Product", "weight", expr.OpGt, value.Int(1))

	_, err := s.IsSatisfiedBy(electronicsEntity())
	require.Error(t, err)
	assert.True(t, expr.IsMissingField(err))
}

func TestNamed(t *testing.T) {
	s := MustWhere("Product", "price", expr.OpGt, value.Int(100)).Named("PriceAbove(100)")
	assert.Equal(t, "PriceAbove(100)", s.Name())

	ok, err := s.IsSatisfiedBy(electronicsEntity())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestString(t *testing.T) {
	s := MustWhere("Product", "price", expr.OpGt, value.Int(100)).Named("pricey")
	assert.Equal(t, "pricey: (product.price gt 100)", s.String())
}
