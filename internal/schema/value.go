// Package schema implements the typed value/field/record/header layer
// spec.md §3/§4.2/§4.3 describes: a tagged scalar Value, the FieldType
// descriptor that validates and (de)serializes it, and the ordered
// Record/Header maps that drive deterministic record serialization.
package schema

import (
	"fmt"

	"github.com/datahen/farmindex/internal/utils"
)

// Kind is the closed tag of a Value/FieldType. Kind zero (Default) is
// the neutral element, valid against every typed slot; kinds 1..12 are
// the twelve scalar field types spec.md §3 enumerates.
type Kind uint8

const (
	KindDefault Kind = iota
	KindBool
	KindI8
	KindI16
	KindI32
	KindI64
	KindU8
	KindU16
	KindU32
	KindU64
	KindF32
	KindF64
	KindString
)

// MinTypeID and MaxTypeID bound the valid FieldType tag byte.
const (
	MinTypeID uint8 = 1
	MaxTypeID uint8 = 12
)

func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindBool:
		return "bool"
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func (k Kind) isSigned() bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64:
		return true
	default:
		return false
	}
}

func (k Kind) isUnsigned() bool {
	switch k {
	case KindU8, KindU16, KindU32, KindU64:
		return true
	default:
		return false
	}
}

func (k Kind) isFloat() bool {
	return k == KindF32 || k == KindF64
}

func (k Kind) isNumeric() bool {
	return k.isSigned() || k.isUnsigned() || k.isFloat()
}

// Value is a tagged scalar: exactly one of its typed fields is
// meaningful, selected by Kind. The zero Value is Default.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
}

// DefaultValue returns the neutral Value, valid against every FieldType.
func DefaultValue() Value { return Value{kind: KindDefault} }

func NewBool(v bool) Value   { return Value{kind: KindBool, b: v} }
func NewI8(v int8) Value     { return Value{kind: KindI8, i: int64(v)} }
func NewI16(v int16) Value   { return Value{kind: KindI16, i: int64(v)} }
func NewI32(v int32) Value   { return Value{kind: KindI32, i: int64(v)} }
func NewI64(v int64) Value   { return Value{kind: KindI64, i: v} }
func NewU8(v uint8) Value    { return Value{kind: KindU8, u: uint64(v)} }
func NewU16(v uint16) Value  { return Value{kind: KindU16, u: uint64(v)} }
func NewU32(v uint32) Value  { return Value{kind: KindU32, u: uint64(v)} }
func NewU64(v uint64) Value  { return Value{kind: KindU64, u: v} }
func NewF32(v float32) Value { return Value{kind: KindF32, f: float64(v)} }
func NewF64(v float64) Value { return Value{kind: KindF64, f: v} }
func NewString(v string) Value { return Value{kind: KindString, s: v} }

// Kind reports the tag of the value.
func (v Value) Kind() Kind { return v.kind }

// IsDefault reports whether v is the neutral Default value.
func (v Value) IsDefault() bool { return v.kind == KindDefault }

// Bool returns the boolean payload and whether v's kind is Bool.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Int returns the signed-integer payload widened to int64, and whether
// v's kind is one of the signed integer kinds.
func (v Value) Int() (int64, bool) { return v.i, v.kind.isSigned() }

// Uint returns the unsigned-integer payload widened to uint64, and
// whether v's kind is one of the unsigned integer kinds.
func (v Value) Uint() (uint64, bool) { return v.u, v.kind.isUnsigned() }

// Float returns the floating-point payload widened to float64, and
// whether v's kind is one of the float kinds.
func (v Value) Float() (float64, bool) { return v.f, v.kind.isFloat() }

// Str returns the string payload and whether v's kind is String.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Compare orders two values. ok is false when the values are
// "incomparable": default vs. non-default, bool vs. non-bool, string vs.
// non-string, or numeric vs. non-numeric. Numeric values of any kind
// compare against each other: integer comparisons (signed, unsigned, or
// mixed) are exact over the full int64/uint64 range; only comparisons
// that involve a float operand widen to float64.
func (a Value) Compare(b Value) (cmp int, ok bool) {
	switch {
	case a.kind == KindDefault || b.kind == KindDefault:
		return 0, a.kind == KindDefault && b.kind == KindDefault
	case a.kind == KindBool || b.kind == KindBool:
		if a.kind != KindBool || b.kind != KindBool {
			return 0, false
		}
		if a.b == b.b {
			return 0, true
		}
		if !a.b && b.b {
			return -1, true
		}
		return 1, true
	case a.kind == KindString || b.kind == KindString:
		if a.kind != KindString || b.kind != KindString {
			return 0, false
		}
		return compareStrings(a.s, b.s), true
	case a.kind.isNumeric() && b.kind.isNumeric():
		return compareNumeric(a, b), true
	default:
		return 0, false
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareNumeric(a, b Value) int {
	switch {
	case a.kind.isSigned() && b.kind.isSigned():
		return compareInt64(a.i, b.i)
	case a.kind.isUnsigned() && b.kind.isUnsigned():
		return compareUint64(a.u, b.u)
	case a.kind.isSigned() && b.kind.isUnsigned():
		return compareIntUint(a.i, b.u)
	case a.kind.isUnsigned() && b.kind.isSigned():
		return -compareIntUint(b.i, a.u)
	default:
		return compareFloat64(a.numericAsFloat64(), b.numericAsFloat64())
	}
}

// compareIntUint compares a signed operand against an unsigned one
// exactly: a negative signed value sorts below every unsigned value,
// and a non-negative one fits uint64 without loss, so no widening
// through float64 (which cannot represent every value above 2^53) is
// ever needed for integer-only comparisons.
func compareIntUint(i int64, u uint64) int {
	if i < 0 {
		return -1
	}
	return compareUint64(uint64(i), u)
}

func (v Value) numericAsFloat64() float64 {
	switch {
	case v.kind.isSigned():
		return float64(v.i)
	case v.kind.isUnsigned():
		return float64(v.u)
	default:
		return v.f
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal reports value equality, kept consistent with Compare: it never
// reports equal when Compare would report ok=false and non-zero, and
// never disagrees with a Compare that reports ok=true, cmp==0.
func (a Value) Equal(b Value) bool {
	if a.kind == KindDefault || b.kind == KindDefault {
		return a.kind == KindDefault && b.kind == KindDefault
	}
	cmp, ok := a.Compare(b)
	return ok && cmp == 0
}

// kindMismatchError is shared by FieldType validation and JSON
// conversion; header.go and record.go build their errors inline.
func kindMismatchError(context string) error {
	return &utils.Error{Kind: utils.KindInvalidValue, Context: context, Offset: -1}
}
