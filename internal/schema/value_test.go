package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValue_DefaultEqualsOnlyDefault(t *testing.T) {
	require.True(t, DefaultValue().Equal(DefaultValue()))
	require.False(t, DefaultValue().Equal(NewI32(0)))
	require.False(t, NewI32(0).Equal(DefaultValue()))
}

func TestValue_BoolComparesOnlyToBool(t *testing.T) {
	_, ok := NewBool(true).Compare(NewI8(1))
	require.False(t, ok)

	cmp, ok := NewBool(false).Compare(NewBool(true))
	require.True(t, ok)
	require.Equal(t, -1, cmp)
}

func TestValue_StringComparesOnlyToString(t *testing.T) {
	_, ok := NewString("a").Compare(NewI8(1))
	require.False(t, ok)

	cmp, ok := NewString("alice").Compare(NewString("bob"))
	require.True(t, ok)
	require.Equal(t, -1, cmp)

	cmp, ok = NewString("bob").Compare(NewString("alice"))
	require.True(t, ok)
	require.Equal(t, 1, cmp)
}

func TestValue_NumericCrossKindOrdering(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"i8 vs i64", NewI8(5), NewI64(10), -1},
		{"u16 vs u64", NewU16(100), NewU64(50), 1},
		{"f32 vs f64", NewF32(1.5), NewF64(1.5), 0},
		{"i32 vs f64", NewI32(2), NewF64(2.5), -1},
		{"u8 vs f32 equal", NewU8(3), NewF32(3.0), 0},
		{"negative i8 vs u64", NewI8(-1), NewU64(0), -1},
		{"u64 vs negative i64", NewU64(0), NewI64(-1), 1},
		{"i64 vs u64 equal at max", NewI64(math.MaxInt64), NewU64(math.MaxInt64), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, ok := tt.a.Compare(tt.b)
			require.True(t, ok)
			require.Equal(t, tt.want, cmp)
		})
	}
}

func TestValue_SignedUnsignedComparisonIsExactAbove2Pow53(t *testing.T) {
	// MaxInt64 and 2^63 round to the same float64; an exact integer
	// comparison must still tell them apart.
	cmp, ok := NewI64(math.MaxInt64).Compare(NewU64(1 << 63))
	require.True(t, ok)
	require.Equal(t, -1, cmp)

	cmp, ok = NewU64(1 << 63).Compare(NewI64(math.MaxInt64))
	require.True(t, ok)
	require.Equal(t, 1, cmp)

	require.False(t, NewI64(math.MaxInt64).Equal(NewU64(1<<63)))

	// Adjacent signed and unsigned values above 2^53 stay distinct too.
	cmp, ok = NewI64(math.MaxInt64 - 1).Compare(NewU64(math.MaxInt64))
	require.True(t, ok)
	require.Equal(t, -1, cmp)
}

func TestValue_EqualAgreesWithCompare(t *testing.T) {
	pairs := []struct{ a, b Value }{
		{NewI64(42), NewI64(42)},
		{NewU32(7), NewU32(8)},
		{NewF64(1.0), NewF32(1.0)},
		{NewString("x"), NewString("x")},
		{NewBool(true), NewBool(true)},
		{DefaultValue(), DefaultValue()},
	}
	for _, p := range pairs {
		cmp, ok := p.a.Compare(p.b)
		wantEqual := ok && cmp == 0
		require.Equal(t, wantEqual, p.a.Equal(p.b))
	}
}

func TestValue_IncomparableAcrossBucketsNeverReportsEqual(t *testing.T) {
	require.False(t, NewBool(true).Equal(NewI8(1)))
	require.False(t, NewString("1").Equal(NewI8(1)))
	require.False(t, DefaultValue().Equal(NewBool(false)))
}
