package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckMultiplyOverflow(t *testing.T) {
	require.NoError(t, CheckMultiplyOverflow(0, math.MaxUint64))
	require.NoError(t, CheckMultiplyOverflow(math.MaxUint64, 0))
	require.NoError(t, CheckMultiplyOverflow(1000, 1000))
	require.Error(t, CheckMultiplyOverflow(math.MaxUint64, 2))
}

func TestSafeMultiply(t *testing.T) {
	v, err := SafeMultiply(129, 1000)
	require.NoError(t, err)
	require.Equal(t, uint64(129000), v)

	_, err = SafeMultiply(math.MaxUint64, 2)
	require.Error(t, err)
}

func TestNodeOffset(t *testing.T) {
	const headerBytes = 58
	const nodeBytes = 129

	off, err := NodeOffset(headerBytes, 1, nodeBytes)
	require.NoError(t, err)
	require.Equal(t, uint64(58), off)

	off, err = NodeOffset(headerBytes, 2, nodeBytes)
	require.NoError(t, err)
	require.Equal(t, uint64(58+129), off)

	off, err = NodeOffset(headerBytes, 10, nodeBytes)
	require.NoError(t, err)
	require.Equal(t, uint64(58+9*129), off)

	_, err = NodeOffset(headerBytes, 0, nodeBytes)
	require.Error(t, err, "id 0 is the nil sentinel, not an addressable node")

	_, err = NodeOffset(headerBytes, math.MaxUint64, nodeBytes)
	require.Error(t, err)
}
