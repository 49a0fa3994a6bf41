package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcstanton/satis/value"
)

func TestCombiner_MemoizesStructurallyEqualInputs(t *testing.T) {
	cache := NewMemoCache()
	combiner := NewCombiner(WithCache(cache))

	a := priceAbove(100)
	b := category("Electronics")

	first, err := combiner.And(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	// Fresh leaf allocations with the same structure hit the same entry.
	again, err := combiner.And(priceAbove(100), category("Electronics"))
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, cache.Len())
}

func TestCombiner_CacheDistinguishesOperations(t *testing.T) {
	cache := NewMemoCache()
	combiner := NewCombiner(WithCache(cache))

	a := priceAbove(100)
	b := category("Electronics")

	and, err := combiner.And(a, b)
	require.NoError(t, err)
	or, err := combiner.Or(a, b)
	require.NoError(t, err)
	not, err := combiner.Not(a)
	require.NoError(t, err)

	assert.NotSame(t, and, or)
	assert.NotSame(t, and, not)
	assert.Equal(t, 3, cache.Len())
}

func TestCombiner_CacheDistinguishesOperandOrder(t *testing.T) {
	cache := NewMemoCache()
	combiner := NewCombiner(WithCache(cache))

	a := priceAbove(100)
	b := category("Electronics")

	ab, err := combiner.And(a, b)
	require.NoError(t, err)
	ba, err := combiner.And(b, a)
	require.NoError(t, err)

	// Semantically equivalent, structurally distinct trees.
	assert.NotSame(t, ab, ba)
	assert.Equal(t, 2, cache.Len())
}

func TestCombiner_UncachedZeroValue(t *testing.T) {
	var combiner Combiner

	c, err := combiner.And(priceAbove(100), inStock())
	require.NoError(t, err)

	ok, err := c.IsSatisfiedBy(value.Object{
		"price":    value.Int(150),
		"in_stock": value.Bool(true),
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCombiner_CachedResultStillSatisfiable(t *testing.T) {
	combiner := NewCombiner(WithCache(NewMemoCache()))

	for i := 0; i < 3; i++ {
		c, err := combiner.And(priceAbove(100), inStock())
		require.NoError(t, err)
		ok, err := c.IsSatisfiedBy(value.Object{
			"price":    value.Int(150),
			"in_stock": value.Bool(true),
		})
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
