// Package indexfile implements the on-disk index file formats spec.md
// §3/§4.4/§4.5/§6 describes bit-exact: the 58-byte index header and the
// fixed-size index node record. Every offset here is a deliberate
// choice, matching the byte table in spec.md §6 field for field.
package indexfile

import (
	"io"

	"github.com/datahen/farmindex/internal/byteprim"
	"github.com/datahen/farmindex/internal/utils"
)

// Magic is the 11-byte signature every index file starts with.
const Magic = "datahen_idx"

// Version is the index format version this package reads and writes.
const Version uint32 = 1

// InputKind tags the source format the index was built from.
type InputKind uint8

const (
	InputKindUnknown InputKind = 0
	InputKindCSV     InputKind = 1
	InputKindJSON    InputKind = 2
)

func (k InputKind) String() string {
	switch k {
	case InputKindCSV:
		return "csv"
	case InputKindJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FingerprintSize is the byte length of the input file fingerprint.
const FingerprintSize = 32

// HeaderBytes is the fixed on-disk size of the index header:
// magic(11) + version(4) + indexed(1) + indexed_count(8) + input_kind(1)
// + hash_present(1) + fingerprint(32) = 58.
const HeaderBytes = len(Magic) + byteprim.Size32 + byteprim.SizeBool +
	byteprim.Size64 + 1 + byteprim.SizeBool + FingerprintSize

// Header is the 58-byte prefix of an index file.
type Header struct {
	Version      uint32
	Indexed      bool
	IndexedCount uint64
	InputKind    InputKind
	Fingerprint  [FingerprintSize]byte
	HashPresent  bool
}

// ReadHeader reads exactly HeaderBytes from r and validates the magic
// and version before consuming any other field.
func ReadHeader(r io.Reader) (*Header, error) {
	buf := utils.GetBuffer(HeaderBytes)
	defer utils.ReleaseBuffer(buf)

	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, utils.WrapError("index header: reading", err)
	}

	off := 0
	if string(buf[off:off+len(Magic)]) != Magic {
		return nil, &utils.Error{
			Kind:    utils.KindInvalidFormat,
			Context: "index header: bad magic",
			Offset:  int64(off),
		}
	}
	off += len(Magic)

	version, err := byteprim.ReadUint32(buf[off : off+byteprim.Size32])
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, &utils.Error{
			Kind:    utils.KindInvalidFormat,
			Context: "index header: unsupported version",
			Offset:  int64(off),
		}
	}
	off += byteprim.Size32

	indexed, err := byteprim.ReadBool(buf[off : off+byteprim.SizeBool])
	if err != nil {
		return nil, err
	}
	off += byteprim.SizeBool

	indexedCount, err := byteprim.ReadUint64(buf[off : off+byteprim.Size64])
	if err != nil {
		return nil, err
	}
	off += byteprim.Size64

	inputKindByte, err := byteprim.ReadUint8(buf[off : off+1])
	if err != nil {
		return nil, err
	}
	if inputKindByte > uint8(InputKindJSON) {
		return nil, &utils.Error{
			Kind:    utils.KindInvalidFormat,
			Context: "index header: unknown input kind",
			Offset:  int64(off),
		}
	}
	off++

	hashPresent, err := byteprim.ReadBool(buf[off : off+byteprim.SizeBool])
	if err != nil {
		return nil, err
	}
	off += byteprim.SizeBool

	var fingerprint [FingerprintSize]byte
	copy(fingerprint[:], buf[off:off+FingerprintSize])

	return &Header{
		Version:      version,
		Indexed:      indexed,
		IndexedCount: indexedCount,
		InputKind:    InputKind(inputKindByte),
		Fingerprint:  fingerprint,
		HashPresent:  hashPresent,
	}, nil
}

// WriteTo encodes the header (HeaderBytes bytes) to w.
func (h *Header) WriteTo(w io.Writer) error {
	buf := utils.GetBuffer(HeaderBytes)
	defer utils.ReleaseBuffer(buf)

	off := 0
	copy(buf[off:off+len(Magic)], Magic)
	off += len(Magic)

	if err := byteprim.WriteUint32(buf[off:off+byteprim.Size32], h.Version); err != nil {
		return err
	}
	off += byteprim.Size32

	if err := byteprim.WriteBool(buf[off:off+byteprim.SizeBool], h.Indexed); err != nil {
		return err
	}
	off += byteprim.SizeBool

	if err := byteprim.WriteUint64(buf[off:off+byteprim.Size64], h.IndexedCount); err != nil {
		return err
	}
	off += byteprim.Size64

	if err := byteprim.WriteUint8(buf[off:off+1], uint8(h.InputKind)); err != nil {
		return err
	}
	off++

	if err := byteprim.WriteBool(buf[off:off+byteprim.SizeBool], h.HashPresent); err != nil {
		return err
	}
	off += byteprim.SizeBool

	if h.HashPresent {
		copy(buf[off:off+FingerprintSize], h.Fingerprint[:])
	} else {
		for i := off; i < off+FingerprintSize; i++ {
			buf[i] = 0
		}
	}

	_, err := w.Write(buf)
	return utils.WrapError("index header: writing", err)
}
