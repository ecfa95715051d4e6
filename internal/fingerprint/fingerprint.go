// Package fingerprint computes the 256-bit content fingerprint stored
// in an index header, used to detect that an input file changed since
// it was last indexed. Hashing streams the input in fixed chunks so a
// build never holds the whole file in memory, and uses sha256-simd for
// the same reason the rest of this module avoids stdlib where a SIMD
// accelerated drop-in exists.
package fingerprint

import (
	"io"

	"github.com/datahen/farmindex/internal/indexfile"
	"github.com/datahen/farmindex/internal/utils"
	"github.com/minio/sha256-simd"
)

// ChunkSize is the read buffer size used while streaming the input.
const ChunkSize = 4096

// Compute streams r in ChunkSize chunks and returns its SHA-256
// fingerprint, sized to fit directly into an index header.
func Compute(r io.Reader) ([indexfile.FingerprintSize]byte, error) {
	var out [indexfile.FingerprintSize]byte

	h := sha256.New()
	buf := utils.GetBuffer(ChunkSize)
	defer utils.ReleaseBuffer(buf)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := h.Write(buf[:n]); werr != nil {
				return out, utils.WrapError("fingerprint: hashing", werr)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, utils.WrapError("fingerprint: reading input", err)
		}
	}

	copy(out[:], h.Sum(nil))
	return out, nil
}

// Matches reports whether fp equals the fingerprint stored in an index
// header that declares HashPresent.
func Matches(h *indexfile.Header, fp [indexfile.FingerprintSize]byte) bool {
	if !h.HashPresent {
		return false
	}
	return h.Fingerprint == fp
}
