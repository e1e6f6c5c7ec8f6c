package runtime

import (
	"errors"
	"math"
	"testing"

	"github.com/panyam/ion/decl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimize(t *testing.T) {
	tests := []struct {
		in   float64
		kind decl.ValueKind
	}{
		{0, decl.KindU8},
		{1, decl.KindU8},
		{255, decl.KindU8},
		{256, decl.KindU16},
		{65535, decl.KindU16},
		{65536, decl.KindU32},
		{math.MaxUint32, decl.KindU32},
		{math.MaxUint32 + 1, decl.KindU64},
		{-1, decl.KindI8},
		{-128, decl.KindI8},
		{-129, decl.KindI16},
		{-32768, decl.KindI16},
		{-32769, decl.KindI32},
		{math.MinInt32, decl.KindI32},
		{math.MinInt32 - 1, decl.KindI64},
		{1e20, decl.KindF64},
		{-1e20, decl.KindF64},
		{0.5, decl.KindF32},
		{3.5, decl.KindF32},
		{0.1, decl.KindF64},
		{math.Inf(1), decl.KindF64},
	}
	for _, tt := range tests {
		got := Minimize(tt.in)
		assert.Equal(t, tt.kind, got.Kind(), "Minimize(%v)", tt.in)
		if !math.IsInf(tt.in, 0) {
			assert.Equal(t, tt.in, got.(decl.Numeric).Float64(), "Minimize(%v) must be exact", tt.in)
		}
	}
}

func TestMinimize_ByteRangeIsU8(t *testing.T) {
	for n := 0; n <= 255; n++ {
		require.Equal(t, decl.KindU8, Minimize(float64(n)).Kind(), "n=%d", n)
	}
	for _, n := range []int{256, 1000, 40000, 65535} {
		require.Equal(t, decl.KindU16, Minimize(float64(n)).Kind(), "n=%d", n)
	}
}

func TestArithmetic(t *testing.T) {
	u8 := func(v uint8) decl.Value { return decl.NewNumber(v) }
	tests := []struct {
		op          string
		left, right decl.Value
		want        string
		kind        decl.ValueKind
	}{
		{"+", u8(200), u8(100), "300", decl.KindU16},
		{"-", u8(1), u8(2), "-1", decl.KindI8},
		{"*", u8(16), u8(16), "256", decl.KindU16},
		{"/", u8(8), u8(2), "4", decl.KindU8},
		{"/", u8(7), u8(2), "3.5", decl.KindF32},
		{"/", u8(1), u8(3), "0.3333333333333333", decl.KindF64},
		{"%", u8(7), u8(3), "1", decl.KindU8},
		{"+", decl.NewNumber(float32(0.5)), u8(1), "1.5", decl.KindF32},
		{"+", decl.NewNumber(int8(-100)), decl.NewNumber(uint16(1000)), "900", decl.KindU16},
	}
	for _, tt := range tests {
		got, err := Arithmetic(tt.op, tt.left, tt.right)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.String(), "%s %s %s", tt.left, tt.op, tt.right)
		assert.Equal(t, tt.kind, got.Kind(), "%s %s %s", tt.left, tt.op, tt.right)
	}
}

func TestArithmetic_Strings(t *testing.T) {
	got, err := Arithmetic("+", decl.String("foo"), decl.String("bar"))
	require.NoError(t, err)
	assert.Equal(t, decl.String("foobar"), got)

	_, err = Arithmetic("-", decl.String("foo"), decl.String("bar"))
	assert.True(t, errors.Is(err, ErrInvalidOperands))

	_, err = Arithmetic("+", decl.String("foo"), decl.NewNumber(uint8(1)))
	assert.True(t, errors.Is(err, ErrInvalidOperands))

	_, err = Arithmetic("+", decl.Bool(true), decl.NewNumber(uint8(1)))
	assert.True(t, errors.Is(err, ErrInvalidOperands))
}

func TestArithmetic_ZeroDivisor(t *testing.T) {
	zeros := []decl.Value{
		decl.NewNumber(uint8(0)),
		decl.NewNumber(int64(0)),
		decl.NewNumber(float32(0)),
		decl.NewNumber(0.0),
	}
	for _, z := range zeros {
		_, err := Arithmetic("/", decl.NewNumber(uint8(5)), z)
		assert.True(t, errors.Is(err, ErrDivisionByZero), "5 / %s (%s)", z, z.Kind())

		_, err = Arithmetic("%", decl.NewNumber(0.5), z)
		assert.True(t, errors.Is(err, ErrModuloByZero), "0.5 %% %s (%s)", z, z.Kind())
	}
}

func TestIntValue(t *testing.T) {
	v, ok := IntValue(decl.NewNumber(uint16(300)))
	assert.True(t, ok)
	assert.Equal(t, int64(300), v)

	_, ok = IntValue(decl.NewNumber(float32(1.5)))
	assert.False(t, ok)

	_, ok = IntValue(decl.String("1"))
	assert.False(t, ok)
}
