package schema

import (
	"fmt"
	"io"

	"github.com/datahen/farmindex/internal/byteprim"
	"github.com/datahen/farmindex/internal/utils"
)

// Header is an ordered mapping from field name to Field, iterated in
// insertion order. It drives deterministic Record serialization and
// caches the total byte size a Record built from it occupies.
type Header struct {
	fields      []Field
	index       map[string]int
	recordBytes int
}

// NewHeader builds an empty Header.
func NewHeader() *Header {
	return &Header{index: make(map[string]int)}
}

// AddField appends a field to the header. A duplicate name is an error.
func (h *Header) AddField(f Field) error {
	if h.index == nil {
		h.index = make(map[string]int)
	}
	if _, exists := h.index[f.Name()]; exists {
		return &utils.Error{
			Kind:    utils.KindDuplicateField,
			Context: fmt.Sprintf("header: duplicate field %q", f.Name()),
			Offset:  -1,
		}
	}
	h.index[f.Name()] = len(h.fields)
	h.fields = append(h.fields, f)
	h.recordBytes += f.Type().ValueByteSize()
	return nil
}

// RemoveField drops a field by name and rebuilds the cached record size.
func (h *Header) RemoveField(name string) error {
	i, ok := h.index[name]
	if !ok {
		return &utils.Error{
			Kind:    utils.KindInvalidValue,
			Context: fmt.Sprintf("header: unknown field %q", name),
			Offset:  -1,
		}
	}
	h.fields = append(h.fields[:i], h.fields[i+1:]...)
	h.rebuildIndex()
	h.rebuildRecordBytes()
	return nil
}

func (h *Header) rebuildIndex() {
	h.index = make(map[string]int, len(h.fields))
	for i, f := range h.fields {
		h.index[f.Name()] = i
	}
}

func (h *Header) rebuildRecordBytes() {
	total := 0
	for _, f := range h.fields {
		total += f.Type().ValueByteSize()
	}
	h.recordBytes = total
}

// Len returns the number of fields.
func (h *Header) Len() int { return len(h.fields) }

// Fields returns the fields in insertion order. Must not be mutated.
func (h *Header) Fields() []Field { return h.fields }

// Field returns the field at position i.
func (h *Header) Field(i int) Field { return h.fields[i] }

// RecordByteSize returns the cached sum of the fields' value slot sizes.
func (h *Header) RecordByteSize() int { return h.recordBytes }

// SizeAsBytes returns the on-disk size of the header's own serialized
// form: a 4-byte field count followed by Len() FieldBytes-sized fields.
func (h *Header) SizeAsBytes() int {
	return byteprim.Size32 + FieldBytes*h.Len()
}

// NewRecord builds a Record with every field set to Default, in the
// header's field order.
func (h *Header) NewRecord() Record {
	rec := NewRecord()
	for _, f := range h.fields {
		_ = rec.Add(f.Name(), DefaultValue())
	}
	return rec
}

// ReadHeader decodes a Header from r: a 4-byte field count followed by
// that many Fields. A duplicate name among the fields is a parse error.
func ReadHeader(r io.Reader) (*Header, error) {
	countBuf := utils.GetBuffer(byteprim.Size32)
	if _, err := io.ReadFull(r, countBuf); err != nil {
		utils.ReleaseBuffer(countBuf)
		return nil, utils.WrapError("header: reading field count", err)
	}
	count, err := byteprim.ReadUint32(countBuf)
	utils.ReleaseBuffer(countBuf)
	if err != nil {
		return nil, err
	}

	h := NewHeader()
	for i := uint32(0); i < count; i++ {
		f, err := ReadField(r)
		if err != nil {
			return nil, err
		}
		if err := h.AddField(f); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// WriteTo encodes the header (a 4-byte count then its fields) to w.
func (h *Header) WriteTo(w io.Writer) error {
	buf := utils.GetBuffer(byteprim.Size32)
	defer utils.ReleaseBuffer(buf)
	if err := byteprim.WriteUint32(buf, uint32(h.Len())); err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return utils.WrapError("header: writing field count", err)
	}
	for _, f := range h.fields {
		if err := f.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

// ReadRecord decodes one Record from r using the header's field order
// and types: each field's type descriptor dictates how many bytes to
// consume and how to interpret them.
func (h *Header) ReadRecord(r io.Reader) (Record, error) {
	rec := NewRecord()
	for _, f := range h.fields {
		v, err := f.Type().ReadValue(r)
		if err != nil {
			return Record{}, err
		}
		if err := rec.Add(f.Name(), v); err != nil {
			return Record{}, err
		}
	}
	return rec, nil
}

// WriteRecord encodes rec to w in the header's field order. rec must
// have exactly Len() fields.
func (h *Header) WriteRecord(w io.Writer, rec Record) error {
	if rec.Len() != h.Len() {
		return &utils.Error{
			Kind:    utils.KindInvalidValue,
			Context: fmt.Sprintf("header: record has %d fields, header has %d", rec.Len(), h.Len()),
			Offset:  -1,
		}
	}
	for _, f := range h.fields {
		v, ok := rec.Get(f.Name())
		if !ok {
			return &utils.Error{
				Kind:    utils.KindInvalidValue,
				Context: fmt.Sprintf("header: record missing field %q", f.Name()),
				Offset:  -1,
			}
		}
		if err := f.Type().WriteValue(w, v); err != nil {
			return err
		}
	}
	return nil
}
