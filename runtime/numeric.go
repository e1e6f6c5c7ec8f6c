package runtime

import (
	"fmt"
	"math"

	"github.com/panyam/ion/decl"
)

// Minimize picks the tightest numeric variant that reproduces v exactly.
// Whole values become the smallest unsigned width when non-negative and the
// smallest signed width otherwise. Values with a fractional part stay F32 if
// they survive a round trip through float32, else F64.
func Minimize(v float64) decl.Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decl.NewNumber(v)
	}
	if v == math.Trunc(v) {
		switch {
		case v >= 0 && v <= math.MaxUint8:
			return decl.NewNumber(uint8(v))
		case v >= 0 && v <= math.MaxUint16:
			return decl.NewNumber(uint16(v))
		case v >= 0 && v <= math.MaxUint32:
			return decl.NewNumber(uint32(v))
		case v >= 0 && v < 1<<64:
			return decl.NewNumber(uint64(v))
		case v < 0 && v >= math.MinInt8:
			return decl.NewNumber(int8(v))
		case v < 0 && v >= math.MinInt16:
			return decl.NewNumber(int16(v))
		case v < 0 && v >= math.MinInt32:
			return decl.NewNumber(int32(v))
		case v < 0 && v >= math.MinInt64:
			return decl.NewNumber(int64(v))
		}
		return decl.NewNumber(v)
	}
	if float64(float32(v)) == v {
		return decl.NewNumber(float32(v))
	}
	return decl.NewNumber(v)
}

// Arithmetic applies op to two resolved values.
// Numeric operands are widened to 64 bits and the result re-minimized;
// two strings concatenate under "+".
func Arithmetic(op string, left, right decl.Value) (decl.Value, error) {
	ln, lok := left.(decl.Numeric)
	rn, rok := right.(decl.Numeric)
	if lok && rok {
		out, err := applyNumeric(op, ln.Float64(), rn.Float64())
		if err != nil {
			return nil, err
		}
		return Minimize(out), nil
	}

	ls, lok := left.(decl.String)
	rs, rok := right.(decl.String)
	if lok && rok && op == "+" {
		return ls + rs, nil
	}
	return nil, fmt.Errorf("%w: %s %s %s", ErrInvalidOperands, left.Kind(), op, right.Kind())
}

func applyNumeric(op string, l, r float64) (float64, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return 0, fmt.Errorf("%w: %v / %v", ErrDivisionByZero, l, r)
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return 0, fmt.Errorf("%w: %v %% %v", ErrModuloByZero, l, r)
		}
		return math.Mod(l, r), nil
	}
	return 0, fmt.Errorf("%w: operator '%s'", ErrUnsupportedOperation, op)
}

// IntValue returns the integer held by an integer-kinded numeric value.
func IntValue(v decl.Value) (int64, bool) {
	n, ok := v.(decl.Numeric)
	if !ok || !v.Kind().IsInteger() {
		return 0, false
	}
	return int64(n.Float64()), true
}
