package safemath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckedAddU64(t *testing.T) {
	sum, err := CheckedAddU64(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), sum)

	_, err = CheckedAddU64(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestCheckedSubU64(t *testing.T) {
	diff, err := CheckedSubU64(5, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), diff)

	_, err = CheckedSubU64(4, 5)
	assert.ErrorIs(t, err, ErrUnderflow)
}

func TestCheckedMulU64(t *testing.T) {
	prod, err := CheckedMulU64(1<<32, 1<<31)
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<63), prod)

	_, err = CheckedMulU64(1<<32, 1<<32)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestSaturating(t *testing.T) {
	assert.Equal(t, uint64(math.MaxUint64), SaturatingAddU64(math.MaxUint64, 10))
	assert.Equal(t, uint64(0), SaturatingSubU64(3, 10))
	assert.Equal(t, uint64(7), SaturatingSubU64(10, 3))
	assert.Equal(t, uint64(math.MaxUint64), SaturatingMulU64(1<<40, 1<<40))
}

func TestCheckedAddI64(t *testing.T) {
	sum, err := CheckedAddI64(-5, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), sum)

	_, err = CheckedAddI64(math.MaxInt64, 1)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = CheckedAddI64(math.MinInt64, -1)
	assert.ErrorIs(t, err, ErrOverflow)
}
