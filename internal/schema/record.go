package schema

import (
	"fmt"

	"github.com/datahen/farmindex/internal/utils"
)

// Record is an ordered mapping from unique field name to Value,
// iterated in insertion order. Records are always serialized in the
// order of some external Header, never on their own.
type Record struct {
	names  []string
	values []Value
	index  map[string]int
}

// NewRecord builds an empty Record.
func NewRecord() Record {
	return Record{index: make(map[string]int)}
}

// Add appends (name, v) to the record. A duplicate name is an error.
func (r *Record) Add(name string, v Value) error {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if _, exists := r.index[name]; exists {
		return &utils.Error{
			Kind:    utils.KindDuplicateField,
			Context: fmt.Sprintf("record: duplicate field %q", name),
			Offset:  -1,
		}
	}
	r.index[name] = len(r.names)
	r.names = append(r.names, name)
	r.values = append(r.values, v)
	return nil
}

// Set overwrites the value of an existing field by name.
func (r *Record) Set(name string, v Value) error {
	i, ok := r.index[name]
	if !ok {
		return &utils.Error{
			Kind:    utils.KindInvalidValue,
			Context: fmt.Sprintf("record: unknown field %q", name),
			Offset:  -1,
		}
	}
	r.values[i] = v
	return nil
}

// SetByIndex overwrites the value at position i. i out of range is a
// programmer error and panics, matching the spec's contract.
func (r *Record) SetByIndex(i int, v Value) {
	r.values[i] = v
}

// Get returns the value for name and whether it exists.
func (r Record) Get(name string) (Value, bool) {
	i, ok := r.index[name]
	if !ok {
		return Value{}, false
	}
	return r.values[i], true
}

// GetByIndex returns the value at position i. i out of range is a
// programmer error and panics, matching the spec's contract.
func (r Record) GetByIndex(i int) Value {
	return r.values[i]
}

// Len returns the number of fields in the record.
func (r Record) Len() int { return len(r.names) }

// Names returns the field names in insertion order. The returned slice
// must not be mutated by the caller.
func (r Record) Names() []string { return r.names }

// Range calls fn for each (name, value) pair in insertion order,
// stopping early if fn returns false.
func (r Record) Range(fn func(name string, v Value) bool) {
	for i, name := range r.names {
		if !fn(name, r.values[i]) {
			return
		}
	}
}
