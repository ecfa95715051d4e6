package utils

import (
	"fmt"
	"math"
)

// CheckMultiplyOverflow checks if multiplying two uint64 values would
// overflow. Returns an error if overflow would occur.
func CheckMultiplyOverflow(a, b uint64) error {
	if a == 0 || b == 0 {
		return nil
	}

	if a > math.MaxUint64/b {
		return fmt.Errorf("multiplication overflow: %d * %d exceeds uint64 max", a, b)
	}

	return nil
}

// SafeMultiply multiplies two uint64 values and returns the result if no
// overflow occurs. Returns 0 and an error if overflow would occur.
func SafeMultiply(a, b uint64) (uint64, error) {
	if err := CheckMultiplyOverflow(a, b); err != nil {
		return 0, err
	}
	return a * b, nil
}

// NodeOffset computes the byte offset of 1-based node id within the
// index file, returning an error instead of silently wrapping if the
// arithmetic would overflow (a corrupted indexed_count could drive id
// large enough to overflow on this multiplication).
func NodeOffset(headerBytes uint64, id uint64, nodeBytes uint64) (uint64, error) {
	if id == 0 {
		return 0, fmt.Errorf("node id 0 has no offset (0 is the nil sentinel)")
	}
	span, err := SafeMultiply(id-1, nodeBytes)
	if err != nil {
		return 0, fmt.Errorf("node offset overflow for id %d: %w", id, err)
	}
	if span > math.MaxUint64-headerBytes {
		return 0, fmt.Errorf("node offset overflow for id %d: exceeds uint64 max", id)
	}
	return headerBytes + span, nil
}
