// Package bloomindex provides a fast-reject, in-memory Bloom filter
// over gids that have been indexed. Search consults it before walking
// the on-disk AVL tree: a negative answer means the gid is definitely
// absent and the tree walk can be skipped, a positive answer still
// requires the tree walk to confirm (false positives are expected).
package bloomindex

import (
	"io"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFalsePositiveRate is used when callers don't need to tune the
// size/accuracy tradeoff themselves.
const DefaultFalsePositiveRate = 0.01

// Filter wraps a bloom.BloomFilter sized for an expected gid count.
type Filter struct {
	bf *bloom.BloomFilter
}

// New creates a filter sized for expectedGids entries at
// DefaultFalsePositiveRate.
func New(expectedGids uint) *Filter {
	return NewWithRate(expectedGids, DefaultFalsePositiveRate)
}

// NewWithRate creates a filter sized for expectedGids entries at the
// given false positive rate.
func NewWithRate(expectedGids uint, falsePositiveRate float64) *Filter {
	if expectedGids == 0 {
		expectedGids = 1
	}
	return &Filter{bf: bloom.NewWithEstimates(expectedGids, falsePositiveRate)}
}

// Add records gid as present.
func (f *Filter) Add(gid string) {
	f.bf.AddString(gid)
}

// MaybeContains reports whether gid might have been indexed. false is
// a definite answer; true requires confirmation against the index.
func (f *Filter) MaybeContains(gid string) bool {
	return f.bf.TestString(gid)
}

// WriteTo serializes the filter for persistence alongside the index
// file, e.g. in a sidecar ".bloom" file rebuilt whenever the index is
// rebuilt from scratch.
func (f *Filter) WriteTo(w io.Writer) (int64, error) {
	return f.bf.WriteTo(w)
}

// ReadFrom loads a filter previously written by WriteTo.
func ReadFrom(r io.Reader) (*Filter, error) {
	bf := &bloom.BloomFilter{}
	if _, err := bf.ReadFrom(r); err != nil {
		return nil, err
	}
	return &Filter{bf: bf}, nil
}
