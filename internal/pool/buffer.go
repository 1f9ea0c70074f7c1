// Package pool provides memory management for part payload buffers.
//
// One multipart upload reuses a small set of chunk-sized buffers instead of
// allocating a fresh payload for every part; with bounded upload concurrency
// only a handful of buffers are ever live at once.
package pool

import (
	"sync"
)

// ChunkPool hands out fixed-size payload buffers for one upload. All buffers
// share the upload's resolved chunk size, so any returned buffer can serve
// any future part.
type ChunkPool struct {
	size int64
	pool sync.Pool
}

// NewChunkPool creates a pool producing buffers of exactly size bytes.
func NewChunkPool(size int64) *ChunkPool {
	return &ChunkPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				buf := make([]byte, size)
				return &buf
			},
		},
	}
}

// Get returns a buffer of the pool's chunk size. The caller owns the buffer
// until it calls Put.
func (p *ChunkPool) Get() []byte {
	bufPtr := p.pool.Get().(*[]byte)
	return (*bufPtr)[:p.size]
}

// Put returns a buffer to the pool. Buffers of a different capacity are
// dropped rather than pooled.
func (p *ChunkPool) Put(buf []byte) {
	if int64(cap(buf)) != p.size {
		return
	}
	buf = buf[:p.size]
	p.pool.Put(&buf)
}

// Size returns the pool's buffer size in bytes.
func (p *ChunkPool) Size() int64 {
	return p.size
}
