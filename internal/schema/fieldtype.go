package schema

import (
	"io"

	"github.com/datahen/farmindex/internal/byteprim"
	"github.com/datahen/farmindex/internal/utils"
)

// FieldTypeBytes is the on-disk size of an encoded FieldType descriptor:
// a 1-byte tag plus a 4-byte parameter (used only by Str).
const FieldTypeBytes = 1 + byteprim.Size32

// FieldType describes the scalar kind a Field's slot holds, plus the
// string capacity parameter when Kind is String.
type FieldType struct {
	kind   Kind
	strCap uint32
}

// NewFieldType builds a FieldType. kind must be one of the 12 scalar
// kinds (not Default); strCap is only meaningful (and only consulted)
// when kind is KindString.
func NewFieldType(kind Kind, strCap uint32) (FieldType, error) {
	tag := uint8(kind)
	if tag < MinTypeID || tag > MaxTypeID {
		return FieldType{}, &utils.Error{
			Kind:    utils.KindInvalidFormat,
			Context: "field type: tag out of range",
			Offset:  -1,
		}
	}
	return FieldType{kind: kind, strCap: strCap}, nil
}

// Kind reports the scalar kind.
func (ft FieldType) Kind() Kind { return ft.kind }

// StrCap reports the string slot capacity. Only meaningful when
// Kind() == KindString.
func (ft FieldType) StrCap() uint32 { return ft.strCap }

// ValueByteSize returns the slot size a value of this type occupies on
// disk: 1/2/4/8 for scalars, 4+StrCap for strings.
func (ft FieldType) ValueByteSize() int {
	switch ft.kind {
	case KindBool, KindI8, KindU8:
		return byteprim.Size8
	case KindI16, KindU16:
		return byteprim.Size16
	case KindI32, KindU32, KindF32:
		return byteprim.Size32
	case KindI64, KindU64, KindF64:
		return byteprim.Size64
	case KindString:
		return byteprim.StringSlotSize(ft.strCap)
	default:
		return 0
	}
}

// IsValid reports whether v is an acceptable payload for this field
// type: Default is always valid; a scalar kind accepts only the
// matching Value kind; String accepts a string no longer than StrCap.
func (ft FieldType) IsValid(v Value) bool {
	if v.IsDefault() {
		return true
	}
	if ft.kind == KindString {
		s, ok := v.Str()
		if !ok {
			return false
		}
		return uint32(len(s)) <= ft.strCap
	}
	return v.Kind() == ft.kind
}

// ReadValue decodes one value of this field type from r.
func (ft FieldType) ReadValue(r io.Reader) (Value, error) {
	size := ft.ValueByteSize()
	buf := utils.GetBuffer(size)
	defer utils.ReleaseBuffer(buf)

	if _, err := io.ReadFull(r, buf); err != nil {
		return Value{}, utils.WrapError("field type: reading value", err)
	}

	switch ft.kind {
	case KindBool:
		v, err := byteprim.ReadBool(buf)
		if err != nil {
			return Value{}, err
		}
		return NewBool(v), nil
	case KindI8:
		v, err := byteprim.ReadInt8(buf)
		if err != nil {
			return Value{}, err
		}
		return NewI8(v), nil
	case KindI16:
		v, err := byteprim.ReadInt16(buf)
		if err != nil {
			return Value{}, err
		}
		return NewI16(v), nil
	case KindI32:
		v, err := byteprim.ReadInt32(buf)
		if err != nil {
			return Value{}, err
		}
		return NewI32(v), nil
	case KindI64:
		v, err := byteprim.ReadInt64(buf)
		if err != nil {
			return Value{}, err
		}
		return NewI64(v), nil
	case KindU8:
		v, err := byteprim.ReadUint8(buf)
		if err != nil {
			return Value{}, err
		}
		return NewU8(v), nil
	case KindU16:
		v, err := byteprim.ReadUint16(buf)
		if err != nil {
			return Value{}, err
		}
		return NewU16(v), nil
	case KindU32:
		v, err := byteprim.ReadUint32(buf)
		if err != nil {
			return Value{}, err
		}
		return NewU32(v), nil
	case KindU64:
		v, err := byteprim.ReadUint64(buf)
		if err != nil {
			return Value{}, err
		}
		return NewU64(v), nil
	case KindF32:
		v, err := byteprim.ReadFloat32(buf)
		if err != nil {
			return Value{}, err
		}
		return NewF32(v), nil
	case KindF64:
		v, err := byteprim.ReadFloat64(buf)
		if err != nil {
			return Value{}, err
		}
		return NewF64(v), nil
	case KindString:
		v, err := byteprim.ReadString(buf, ft.strCap)
		if err != nil {
			return Value{}, err
		}
		return NewString(v), nil
	default:
		return Value{}, kindMismatchError("field type: unknown kind")
	}
}

// WriteValue encodes v into w per this field type: Default writes the
// zero pattern occupying the full slot; any other value must match the
// field's kind (and, for strings, its capacity) or an error is returned.
func (ft FieldType) WriteValue(w io.Writer, v Value) error {
	if !ft.IsValid(v) {
		return kindMismatchError("field type: value does not match field type")
	}

	size := ft.ValueByteSize()
	buf := utils.GetBuffer(size)
	defer utils.ReleaseBuffer(buf)
	for i := range buf {
		buf[i] = 0
	}

	if v.IsDefault() {
		_, err := w.Write(buf)
		return utils.WrapError("field type: writing default value", err)
	}

	var err error
	switch ft.kind {
	case KindBool:
		b, _ := v.Bool()
		err = byteprim.WriteBool(buf, b)
	case KindI8:
		i, _ := v.Int()
		err = byteprim.WriteInt8(buf, int8(i))
	case KindI16:
		i, _ := v.Int()
		err = byteprim.WriteInt16(buf, int16(i))
	case KindI32:
		i, _ := v.Int()
		err = byteprim.WriteInt32(buf, int32(i))
	case KindI64:
		i, _ := v.Int()
		err = byteprim.WriteInt64(buf, i)
	case KindU8:
		u, _ := v.Uint()
		err = byteprim.WriteUint8(buf, uint8(u))
	case KindU16:
		u, _ := v.Uint()
		err = byteprim.WriteUint16(buf, uint16(u))
	case KindU32:
		u, _ := v.Uint()
		err = byteprim.WriteUint32(buf, uint32(u))
	case KindU64:
		u, _ := v.Uint()
		err = byteprim.WriteUint64(buf, u)
	case KindF32:
		f, _ := v.Float()
		err = byteprim.WriteFloat32(buf, float32(f))
	case KindF64:
		f, _ := v.Float()
		err = byteprim.WriteFloat64(buf, f)
	case KindString:
		s, _ := v.Str()
		err = byteprim.WriteString(buf, s, ft.strCap)
	default:
		return kindMismatchError("field type: unknown kind")
	}
	if err != nil {
		return err
	}

	_, werr := w.Write(buf)
	return utils.WrapError("field type: writing value", werr)
}

// EncodeTo writes the 5-byte FieldType descriptor into buf.
func (ft FieldType) EncodeTo(buf []byte) error {
	if len(buf) != FieldTypeBytes {
		return &utils.Error{Kind: utils.KindInvalidSize, Context: "field type descriptor", Offset: -1}
	}
	if err := byteprim.WriteUint8(buf[:1], uint8(ft.kind)); err != nil {
		return err
	}
	return byteprim.WriteUint32(buf[1:], ft.strCap)
}

// DecodeFieldType reads a 5-byte FieldType descriptor from buf.
func DecodeFieldType(buf []byte) (FieldType, error) {
	if len(buf) != FieldTypeBytes {
		return FieldType{}, &utils.Error{Kind: utils.KindInvalidSize, Context: "field type descriptor", Offset: -1}
	}
	tag, err := byteprim.ReadUint8(buf[:1])
	if err != nil {
		return FieldType{}, err
	}
	if tag < MinTypeID || tag > MaxTypeID {
		return FieldType{}, &utils.Error{
			Kind:    utils.KindInvalidFormat,
			Context: "field type descriptor: tag out of range",
			Offset:  -1,
		}
	}
	strCap, err := byteprim.ReadUint32(buf[1:])
	if err != nil {
		return FieldType{}, err
	}
	return FieldType{kind: Kind(tag), strCap: strCap}, nil
}
