// Package utils provides low-level byte, error and buffer helpers shared
// across the index file codec and the indexer.
package utils

import "sync"

// defaultScratchCap covers every fixed structure the codecs borrow
// scratch for (the index header, a node record, a field slot) as well
// as the fingerprint streamer's 4 KiB read chunks, so the pool settles
// into steady-state reuse after the first few borrows.
const defaultScratchCap = 4096

var scratchPool = sync.Pool{
	New: func() any {
		return make([]byte, 0, defaultScratchCap)
	},
}

// GetBuffer borrows a scratch slice of exactly size bytes. The contents
// are unspecified; callers overwrite the whole slice before use, the
// way every node/header codec in this module does.
func GetBuffer(size int) []byte {
	buf := scratchPool.Get().([]byte)
	if cap(buf) < size {
		scratchPool.Put(buf[:0])
		return make([]byte, size)
	}
	return buf[:size]
}

// ReleaseBuffer returns a borrowed slice to the pool. The caller must
// not touch buf afterwards.
func ReleaseBuffer(buf []byte) {
	scratchPool.Put(buf[:0])
}
