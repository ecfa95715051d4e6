package schema

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/datahen/farmindex/internal/utils"
)

// ValueFromJSON converts a decoded JSON value (as produced by
// encoding/json into any) into a Value acceptable by this field type.
// JSON null maps to Default; a JSON number must be representable by the
// field's numeric kind without truncation or overflow.
func (ft FieldType) ValueFromJSON(raw any) (Value, error) {
	if raw == nil {
		return DefaultValue(), nil
	}

	switch ft.kind {
	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return Value{}, jsonConvErr(ft, raw)
		}
		return NewBool(b), nil
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return Value{}, jsonConvErr(ft, raw)
		}
		if uint32(len(s)) > ft.strCap {
			return Value{}, &utils.Error{
				Kind:    utils.KindInvalidValue,
				Context: "json value: string longer than field capacity",
				Offset:  -1,
			}
		}
		return NewString(s), nil
	default:
		f, err := jsonNumber(raw)
		if err != nil {
			return Value{}, err
		}
		return ft.valueFromFloat(f)
	}
}

func jsonNumber(raw any) (float64, error) {
	switch n := raw.(type) {
	case float64:
		return n, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, &utils.Error{
				Kind:    utils.KindInvalidValue,
				Context: "json value: unparseable number",
				Offset:  -1,
				Cause:   err,
			}
		}
		return f, nil
	default:
		return 0, &utils.Error{
			Kind:    utils.KindInvalidValue,
			Context: "json value: unknown number type",
			Offset:  -1,
		}
	}
}

func (ft FieldType) valueFromFloat(f float64) (Value, error) {
	if ft.kind.isFloat() {
		if ft.kind == KindF32 {
			if math.Abs(f) > math.MaxFloat32 {
				return Value{}, jsonRangeErr(ft, f)
			}
			return NewF32(float32(f)), nil
		}
		return NewF64(f), nil
	}

	if math.Trunc(f) != f || math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{}, &utils.Error{
			Kind:    utils.KindInvalidValue,
			Context: "json value: non-integral number for integer field",
			Offset:  -1,
		}
	}

	switch ft.kind {
	case KindI8:
		if f < math.MinInt8 || f > math.MaxInt8 {
			return Value{}, jsonRangeErr(ft, f)
		}
		return NewI8(int8(f)), nil
	case KindI16:
		if f < math.MinInt16 || f > math.MaxInt16 {
			return Value{}, jsonRangeErr(ft, f)
		}
		return NewI16(int16(f)), nil
	case KindI32:
		if f < math.MinInt32 || f > math.MaxInt32 {
			return Value{}, jsonRangeErr(ft, f)
		}
		return NewI32(int32(f)), nil
	case KindI64:
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return Value{}, jsonRangeErr(ft, f)
		}
		return NewI64(int64(f)), nil
	case KindU8:
		if f < 0 || f > math.MaxUint8 {
			return Value{}, jsonRangeErr(ft, f)
		}
		return NewU8(uint8(f)), nil
	case KindU16:
		if f < 0 || f > math.MaxUint16 {
			return Value{}, jsonRangeErr(ft, f)
		}
		return NewU16(uint16(f)), nil
	case KindU32:
		if f < 0 || f > math.MaxUint32 {
			return Value{}, jsonRangeErr(ft, f)
		}
		return NewU32(uint32(f)), nil
	case KindU64:
		if f < 0 || f >= math.MaxUint64 {
			return Value{}, jsonRangeErr(ft, f)
		}
		return NewU64(uint64(f)), nil
	default:
		return Value{}, kindMismatchError("json value: unknown kind")
	}
}

func jsonConvErr(ft FieldType, raw any) error {
	return &utils.Error{
		Kind:    utils.KindInvalidValue,
		Context: fmt.Sprintf("json value: %T is not a %s", raw, ft.kind),
		Offset:  -1,
	}
}

func jsonRangeErr(ft FieldType, f float64) error {
	return &utils.Error{
		Kind:    utils.KindInvalidValue,
		Context: fmt.Sprintf("json value: %g out of range for %s", f, ft.kind),
		Offset:  -1,
	}
}

// JSON returns the natural encoding/json representation of v: nil for
// Default, bool, a Go integer or float for the numeric kinds, string
// for String. Marshalled with encoding/json and decoded back into any,
// the result converts back through ValueFromJSON against a field type
// that accepts v. ValueFromJSON does not take the Go integer types
// directly, and integers beyond 2^53 lose precision on the float64
// decode.
func (v Value) JSON() any {
	switch {
	case v.IsDefault():
		return nil
	case v.kind == KindBool:
		return v.b
	case v.kind.isSigned():
		return v.i
	case v.kind.isUnsigned():
		return v.u
	case v.kind.isFloat():
		return v.f
	default:
		return v.s
	}
}
