package capacity_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axbits/lsbsteg/capacity"
)

func TestCompute(t *testing.T) {
	cases := []struct {
		name                            string
		width, height                   uint64
		lsbs                            int
		wantWidthBits, wantCapacityBits uint64
		wantCapacityBytes               uint64
	}{
		{"64x64 lsb1", 64, 64, 1, 64 * 3, 64 * 3 * 64, 64 * 3 * 64 / 8},
		{"16x16 lsb1", 16, 16, 1, 16 * 3, 16 * 3 * 16, 16 * 3 * 16 / 8},
		{"1x1 lsb8", 1, 1, 8, 1 * 3 * 8, 1 * 3 * 8 * 1, 3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g, err := capacity.Compute(c.width, c.height, c.lsbs)
			require.NoError(t, err)
			assert.Equal(t, c.wantWidthBits, g.WidthBits)
			assert.Equal(t, c.wantCapacityBits, g.CapacityBits)
			assert.Equal(t, c.wantCapacityBytes, g.CapacityBytes)
		})
	}
}

func TestComputeOverflow(t *testing.T) {
	_, err := capacity.Compute(math.MaxUint64, math.MaxUint64, 8)
	require.Error(t, err)

	var overflow *capacity.OverflowError
	require.True(t, errors.As(err, &overflow))
}

func TestCheckedMulBitsOverflow(t *testing.T) {
	_, err := capacity.CheckedMulBits(math.MaxUint64)
	require.Error(t, err)
}

func TestCheckedAddOverflow(t *testing.T) {
	_, err := capacity.CheckedAdd(math.MaxUint64, 1)
	require.Error(t, err)

	v, err := capacity.CheckedAdd(3, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)
}
