package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcstanton/satis/expr"
	"github.com/rcstanton/satis/value"
)

func TestFilter(t *testing.T) {
	entities := sampleEntities()

	s, err := priceAbove(100).And(inStock())
	require.NoError(t, err)

	matched, err := Filter(entities, s)
	require.NoError(t, err)

	require.Len(t, matched, 1)
	assert.Equal(t, value.Int(150), matched[0]["price"])
}

func TestFilter_PreservesOrder(t *testing.T) {
	matched, err := Filter(sampleEntities(), inStock())
	require.NoError(t, err)

	require.Len(t, matched, 3)
	assert.Equal(t, value.Int(150), matched[0]["price"])
	assert.Equal(t, value.Int(80), matched[1]["price"])
	assert.Equal(t, value.Int(99), matched[2]["price"])
}

func TestFilter_EmptyResultIsValid(t *testing.T) {
	matched, err := Filter(sampleEntities(), priceAbove(10000))
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestFilter_MissingFieldAborts(t *testing.T) {
	s := MustWhere("Product", "weight", expr.OpGt, value.Int(1))

	_, err := Filter(sampleEntities(), s)
	require.Error(t, err)
	assert.True(t, expr.IsMissingField(err))
}
