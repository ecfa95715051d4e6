package indexfile

import (
	"io"

	"github.com/datahen/farmindex/internal/byteprim"
	"github.com/datahen/farmindex/internal/utils"
)

// GidCap is the compile-time capacity, in bytes, of the gid slot stored
// in every node. Unlike every other field in a node this one has no
// runtime representation in the header: changing it changes NodeBytes
// and is a wire-incompatible change, the same way the reference's
// identifier width is baked into its binary rather than carried in the
// file. 64 bytes comfortably holds UUIDs, ULIDs and most natural keys.
const GidCap = 64

// NilID is the sentinel parent/left/right value meaning "no node".
// Node ids are 1-based so 0 can serve as nil without colliding with a
// real node.
const NilID uint64 = 0

// Status is the review state of a node's row. Build writes every node
// as StatusPending; the other three values are outcomes a client
// records in place afterwards.
type Status byte

const (
	// StatusPending marks a node whose row has not been reviewed yet.
	StatusPending Status = 0
	// StatusIndexed ('Y') marks a row the client accepted.
	StatusIndexed Status = 'Y'
	// StatusFailed ('N') marks a row the client rejected.
	StatusFailed Status = 'N'
	// StatusSkipped ('S') marks a row the client skipped; the node stays
	// linked in the AVL tree.
	StatusSkipped Status = 'S'
)

// Valid reports whether s is one of the defined status values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusIndexed, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusIndexed:
		return "indexed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// NodeBytes is the fixed on-disk size of a Node, computed directly from
// its field widths rather than inherited as an opaque constant:
//
//	status(1) + parent(8) + left(8) + right(8) + height(8) +
//	input_start(8) + input_end(8) + spent_time(8) + gid slot(4+GidCap)
const NodeBytes = 1 + 7*byteprim.Size64 + byteprim.Size32 + GidCap

// Node is one fixed-size record in the AVL forest backing an index
// file: the indexing status of one input row, its AVL linkage, the
// byte range it occupies in the input file, how long it took to
// index, and the gid it was indexed under.
type Node struct {
	Status     Status
	Parent     uint64
	Left       uint64
	Right      uint64
	Height     int64
	InputStart uint64
	InputEnd   uint64
	SpentTime  int64
	Gid        string
}

// ReadNode reads exactly NodeBytes from r and decodes a Node.
func ReadNode(r io.Reader) (Node, error) {
	buf := utils.GetBuffer(NodeBytes)
	defer utils.ReleaseBuffer(buf)

	if _, err := io.ReadFull(r, buf); err != nil {
		return Node{}, utils.WrapError("index node: reading", err)
	}

	off := 0
	statusByte, err := byteprim.ReadUint8(buf[off : off+1])
	if err != nil {
		return Node{}, err
	}
	status := Status(statusByte)
	if !status.Valid() {
		return Node{}, &utils.Error{
			Kind:    utils.KindInvalidFormat,
			Context: "index node: unknown status byte",
			Offset:  int64(off),
		}
	}
	off++

	parent, err := byteprim.ReadUint64(buf[off : off+byteprim.Size64])
	if err != nil {
		return Node{}, err
	}
	off += byteprim.Size64

	left, err := byteprim.ReadUint64(buf[off : off+byteprim.Size64])
	if err != nil {
		return Node{}, err
	}
	off += byteprim.Size64

	right, err := byteprim.ReadUint64(buf[off : off+byteprim.Size64])
	if err != nil {
		return Node{}, err
	}
	off += byteprim.Size64

	height, err := byteprim.ReadInt64(buf[off : off+byteprim.Size64])
	if err != nil {
		return Node{}, err
	}
	off += byteprim.Size64

	inputStart, err := byteprim.ReadUint64(buf[off : off+byteprim.Size64])
	if err != nil {
		return Node{}, err
	}
	off += byteprim.Size64

	inputEnd, err := byteprim.ReadUint64(buf[off : off+byteprim.Size64])
	if err != nil {
		return Node{}, err
	}
	off += byteprim.Size64

	spentTime, err := byteprim.ReadInt64(buf[off : off+byteprim.Size64])
	if err != nil {
		return Node{}, err
	}
	off += byteprim.Size64

	gid, err := byteprim.ReadString(buf[off:off+byteprim.StringSlotSize(GidCap)], GidCap)
	if err != nil {
		return Node{}, err
	}

	return Node{
		Status:     status,
		Parent:     parent,
		Left:       left,
		Right:      right,
		Height:     height,
		InputStart: inputStart,
		InputEnd:   inputEnd,
		SpentTime:  spentTime,
		Gid:        gid,
	}, nil
}

// WriteTo encodes n (NodeBytes bytes) to w.
func (n Node) WriteTo(w io.Writer) error {
	buf := utils.GetBuffer(NodeBytes)
	defer utils.ReleaseBuffer(buf)

	status := n.Status
	if !status.Valid() {
		return &utils.Error{Kind: utils.KindInvalidValue, Context: "index node: unknown status", Offset: -1}
	}

	off := 0
	if err := byteprim.WriteUint8(buf[off:off+1], uint8(status)); err != nil {
		return err
	}
	off++

	if err := byteprim.WriteUint64(buf[off:off+byteprim.Size64], n.Parent); err != nil {
		return err
	}
	off += byteprim.Size64

	if err := byteprim.WriteUint64(buf[off:off+byteprim.Size64], n.Left); err != nil {
		return err
	}
	off += byteprim.Size64

	if err := byteprim.WriteUint64(buf[off:off+byteprim.Size64], n.Right); err != nil {
		return err
	}
	off += byteprim.Size64

	if err := byteprim.WriteInt64(buf[off:off+byteprim.Size64], n.Height); err != nil {
		return err
	}
	off += byteprim.Size64

	if err := byteprim.WriteUint64(buf[off:off+byteprim.Size64], n.InputStart); err != nil {
		return err
	}
	off += byteprim.Size64

	if err := byteprim.WriteUint64(buf[off:off+byteprim.Size64], n.InputEnd); err != nil {
		return err
	}
	off += byteprim.Size64

	if err := byteprim.WriteInt64(buf[off:off+byteprim.Size64], n.SpentTime); err != nil {
		return err
	}
	off += byteprim.Size64

	if err := byteprim.WriteString(buf[off:off+byteprim.StringSlotSize(GidCap)], n.Gid, GidCap); err != nil {
		return err
	}

	_, err := w.Write(buf)
	return utils.WrapError("index node: writing", err)
}

// Offset returns the byte offset of the 1-based node id within an
// index file whose header is HeaderBytes long.
func Offset(id uint64) (uint64, error) {
	return utils.NodeOffset(uint64(HeaderBytes), id, NodeBytes)
}
