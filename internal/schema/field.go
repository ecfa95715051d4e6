package schema

import (
	"io"

	"github.com/datahen/farmindex/internal/byteprim"
	"github.com/datahen/farmindex/internal/utils"
)

// MaxFieldNameBytes is the fixed capacity of a Field's name slot.
const MaxFieldNameBytes = 50

// FieldBytes is the on-disk size of one Field: a 4+50 byte name slot
// plus a 5-byte FieldType descriptor.
const FieldBytes = byteprim.Size32 + MaxFieldNameBytes + FieldTypeBytes

// Field pairs a name with the type descriptor of the slot it names.
type Field struct {
	name      string
	fieldType FieldType
}

// NewField builds a Field. name must fit in MaxFieldNameBytes bytes.
func NewField(name string, ft FieldType) (Field, error) {
	if len(name) > MaxFieldNameBytes {
		return Field{}, &utils.Error{
			Kind:    utils.KindInvalidValue,
			Context: "field: name longer than capacity",
			Offset:  -1,
		}
	}
	return Field{name: name, fieldType: ft}, nil
}

// Name reports the field's name.
func (f Field) Name() string { return f.name }

// Type reports the field's type descriptor.
func (f Field) Type() FieldType { return f.fieldType }

// ReadField decodes one Field (FieldBytes bytes) from r.
func ReadField(r io.Reader) (Field, error) {
	buf := utils.GetBuffer(FieldBytes)
	defer utils.ReleaseBuffer(buf)

	if _, err := io.ReadFull(r, buf); err != nil {
		return Field{}, utils.WrapError("field: reading", err)
	}

	nameSlotSize := byteprim.StringSlotSize(MaxFieldNameBytes)
	name, err := byteprim.ReadString(buf[:nameSlotSize], MaxFieldNameBytes)
	if err != nil {
		return Field{}, err
	}

	ft, err := DecodeFieldType(buf[nameSlotSize:])
	if err != nil {
		return Field{}, err
	}

	return Field{name: name, fieldType: ft}, nil
}

// WriteTo encodes the field (FieldBytes bytes) to w.
func (f Field) WriteTo(w io.Writer) error {
	buf := utils.GetBuffer(FieldBytes)
	defer utils.ReleaseBuffer(buf)

	nameSlotSize := byteprim.StringSlotSize(MaxFieldNameBytes)
	if err := byteprim.WriteString(buf[:nameSlotSize], f.name, MaxFieldNameBytes); err != nil {
		return err
	}
	if err := f.fieldType.EncodeTo(buf[nameSlotSize:]); err != nil {
		return err
	}

	_, err := w.Write(buf)
	return utils.WrapError("field: writing", err)
}
