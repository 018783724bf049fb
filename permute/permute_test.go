package permute_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axbits/lsbsteg/permute"
)

func TestGenerateIsPermutation(t *testing.T) {
	order := permute.Generate(42, 200)
	require.EqualValues(t, 200, order.Len())

	seen := make(map[uint64]bool, 200)
	for i := uint64(0); i < order.Len(); i++ {
		v := order.At(i)
		assert.Less(t, v, uint64(200))
		assert.False(t, seen[v], "value %d repeated", v)
		seen[v] = true
	}
	assert.Len(t, seen, 200)
}

func TestGenerateDeterministic(t *testing.T) {
	a := permute.Generate(7, 500)
	b := permute.Generate(7, 500)

	for i := uint64(0); i < a.Len(); i++ {
		require.Equal(t, a.At(i), b.At(i))
	}
}

func TestGenerateSeedSensitive(t *testing.T) {
	a := permute.Generate(1, 500)
	b := permute.Generate(2, 500)

	differs := false
	for i := uint64(0); i < a.Len(); i++ {
		if a.At(i) != b.At(i) {
			differs = true
			break
		}
	}
	assert.True(t, differs)
}

func TestGenerateUsesNarrowBackingUnderUint32Max(t *testing.T) {
	order := permute.Generate(1, 16)
	require.EqualValues(t, 16, order.Len())
	assert.Equal(t, "permute.order32", fmt.Sprintf("%T", order))
}
