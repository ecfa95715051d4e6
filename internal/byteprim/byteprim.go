// Package byteprim implements the fixed-width, big-endian byte codecs
// every on-disk structure in farmindex is built from: scalar integers,
// floats, bools, and fixed-capacity zero-padded strings. Every function
// here reads from or writes into a caller-supplied slice and touches no
// global state; on success the only allocation is the string that
// ReadString returns.
package byteprim

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/datahen/farmindex/internal/utils"
)

// Byte widths of the fixed-size scalar encodings.
const (
	SizeBool = 1
	Size8    = 1
	Size16   = 2
	Size32   = 4
	Size64   = 8
)

func sizeErr(context string, want, got int) error {
	return &utils.Error{
		Kind:    utils.KindInvalidSize,
		Context: context,
		Offset:  -1,
		Cause:   fmt.Errorf("expected %d bytes, got %d", want, got),
	}
}

// ReadBool decodes a single-byte boolean. Only 0x00 and 0x01 are valid;
// any other byte is an InvalidFormat error.
func ReadBool(buf []byte) (bool, error) {
	if len(buf) != SizeBool {
		return false, sizeErr("bool", SizeBool, len(buf))
	}
	switch buf[0] {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, &utils.Error{Kind: utils.KindInvalidFormat, Context: "bool", Offset: -1}
	}
}

// WriteBool encodes a single-byte boolean into buf.
func WriteBool(buf []byte, v bool) error {
	if len(buf) != SizeBool {
		return sizeErr("bool", SizeBool, len(buf))
	}
	if v {
		buf[0] = 0x01
	} else {
		buf[0] = 0x00
	}
	return nil
}

// ReadUint8 decodes a single byte as an unsigned integer.
func ReadUint8(buf []byte) (uint8, error) {
	if len(buf) != Size8 {
		return 0, sizeErr("uint8", Size8, len(buf))
	}
	return buf[0], nil
}

// WriteUint8 encodes v into buf.
func WriteUint8(buf []byte, v uint8) error {
	if len(buf) != Size8 {
		return sizeErr("uint8", Size8, len(buf))
	}
	buf[0] = v
	return nil
}

// ReadInt8 decodes a single byte as a two's-complement signed integer.
func ReadInt8(buf []byte) (int8, error) {
	v, err := ReadUint8(buf)
	if err != nil {
		return 0, err
	}
	return int8(v), nil
}

// WriteInt8 encodes v into buf.
func WriteInt8(buf []byte, v int8) error {
	return WriteUint8(buf, uint8(v))
}

// ReadUint16 decodes a big-endian uint16.
func ReadUint16(buf []byte) (uint16, error) {
	if len(buf) != Size16 {
		return 0, sizeErr("uint16", Size16, len(buf))
	}
	return binary.BigEndian.Uint16(buf), nil
}

// WriteUint16 encodes v into buf as big-endian.
func WriteUint16(buf []byte, v uint16) error {
	if len(buf) != Size16 {
		return sizeErr("uint16", Size16, len(buf))
	}
	binary.BigEndian.PutUint16(buf, v)
	return nil
}

// ReadInt16 decodes a big-endian two's-complement int16.
func ReadInt16(buf []byte) (int16, error) {
	v, err := ReadUint16(buf)
	if err != nil {
		return 0, err
	}
	return int16(v), nil
}

// WriteInt16 encodes v into buf as big-endian.
func WriteInt16(buf []byte, v int16) error {
	return WriteUint16(buf, uint16(v))
}

// ReadUint32 decodes a big-endian uint32.
func ReadUint32(buf []byte) (uint32, error) {
	if len(buf) != Size32 {
		return 0, sizeErr("uint32", Size32, len(buf))
	}
	return binary.BigEndian.Uint32(buf), nil
}

// WriteUint32 encodes v into buf as big-endian.
func WriteUint32(buf []byte, v uint32) error {
	if len(buf) != Size32 {
		return sizeErr("uint32", Size32, len(buf))
	}
	binary.BigEndian.PutUint32(buf, v)
	return nil
}

// ReadInt32 decodes a big-endian two's-complement int32.
func ReadInt32(buf []byte) (int32, error) {
	v, err := ReadUint32(buf)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// WriteInt32 encodes v into buf as big-endian.
func WriteInt32(buf []byte, v int32) error {
	return WriteUint32(buf, uint32(v))
}

// ReadUint64 decodes a big-endian uint64.
func ReadUint64(buf []byte) (uint64, error) {
	if len(buf) != Size64 {
		return 0, sizeErr("uint64", Size64, len(buf))
	}
	return binary.BigEndian.Uint64(buf), nil
}

// WriteUint64 encodes v into buf as big-endian.
func WriteUint64(buf []byte, v uint64) error {
	if len(buf) != Size64 {
		return sizeErr("uint64", Size64, len(buf))
	}
	binary.BigEndian.PutUint64(buf, v)
	return nil
}

// ReadInt64 decodes a big-endian two's-complement int64.
func ReadInt64(buf []byte) (int64, error) {
	v, err := ReadUint64(buf)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// WriteInt64 encodes v into buf as big-endian.
func WriteInt64(buf []byte, v int64) error {
	return WriteUint64(buf, uint64(v))
}

// ReadFloat32 decodes a big-endian IEEE-754 single.
func ReadFloat32(buf []byte) (float32, error) {
	v, err := ReadUint32(buf)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// WriteFloat32 encodes v into buf as big-endian IEEE-754.
func WriteFloat32(buf []byte, v float32) error {
	return WriteUint32(buf, math.Float32bits(v))
}

// ReadFloat64 decodes a big-endian IEEE-754 double.
func ReadFloat64(buf []byte) (float64, error) {
	v, err := ReadUint64(buf)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// WriteFloat64 encodes v into buf as big-endian IEEE-754.
func WriteFloat64(buf []byte, v float64) error {
	return WriteUint64(buf, math.Float64bits(v))
}

// StringSlotSize returns the on-disk size of a fixed string slot with
// capacity cap bytes: a 4-byte length prefix plus cap bytes of body.
func StringSlotSize(capacity uint32) int {
	return Size32 + int(capacity)
}

// ReadString decodes a fixed string slot: a 4-byte big-endian length L,
// followed by capacity bytes of which the first L are the UTF-8 body and
// the rest are zero padding. L > capacity or a non-UTF-8 body is an
// InvalidValue error.
func ReadString(buf []byte, capacity uint32) (string, error) {
	want := StringSlotSize(capacity)
	if len(buf) != want {
		return "", sizeErr("string slot", want, len(buf))
	}
	length, err := ReadUint32(buf[:Size32])
	if err != nil {
		return "", err
	}
	if length > capacity {
		return "", &utils.Error{
			Kind:    utils.KindInvalidValue,
			Context: "string slot: length prefix exceeds capacity",
			Offset:  -1,
		}
	}
	body := buf[Size32 : Size32+int(length)]
	if !utf8.Valid(body) {
		return "", &utils.Error{
			Kind:    utils.KindInvalidValue,
			Context: "string slot: body is not valid UTF-8",
			Offset:  -1,
		}
	}
	return string(body), nil
}

// WriteString encodes v into a fixed string slot of capacity bytes,
// zero-padding the remainder. len(v) > capacity is an InvalidValue error.
func WriteString(buf []byte, v string, capacity uint32) error {
	want := StringSlotSize(capacity)
	if len(buf) != want {
		return sizeErr("string slot", want, len(buf))
	}
	if uint32(len(v)) > capacity {
		return &utils.Error{
			Kind:    utils.KindInvalidValue,
			Context: "string slot: value longer than capacity",
			Offset:  -1,
		}
	}
	if err := WriteUint32(buf[:Size32], uint32(len(v))); err != nil {
		return err
	}
	body := buf[Size32:want]
	n := copy(body, v)
	for i := n; i < len(body); i++ {
		body[i] = 0
	}
	return nil
}
