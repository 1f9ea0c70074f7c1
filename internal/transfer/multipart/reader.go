package multipart

import (
	"fmt"
	"io"

	"github.com/ttksm/s3transfer/errors"
	"github.com/ttksm/s3transfer/internal/pool"
)

// part is one contiguous, numbered chunk of the source. Parts are produced
// once, consumed once, and never re-numbered.
type part struct {
	number  int32
	payload []byte // pool-owned buffer, sliced to the bytes actually read
}

// partReader produces a lazy, finite, non-restartable sequence of parts from
// a byte source. It reads strictly sequentially: part numbers start at 1 and
// increment with no gaps, and short reads from the underlying source are
// coalesced until a chunk is full or the source is exhausted.
type partReader struct {
	src  io.Reader
	bufs *pool.ChunkPool
	next int32
	done bool
}

func newPartReader(src io.Reader, bufs *pool.ChunkPool) *partReader {
	return &partReader{
		src:  src,
		bufs: bufs,
		next: 1,
	}
}

// readPart returns the next part of the sequence. It returns io.EOF once the
// source is exhausted (an empty source yields zero parts) and a wrapped
// ErrSourceRead if the underlying read fails, after which no further parts
// are produced. The part's payload buffer must be returned to the pool once
// the caller is finished with it.
func (r *partReader) readPart() (part, error) {
	if r.done {
		return part{}, io.EOF
	}

	buf := r.bufs.Get()
	n, err := io.ReadFull(r.src, buf)
	switch {
	case err == io.EOF:
		// Source exhausted on a chunk boundary (or empty source).
		r.done = true
		r.bufs.Put(buf)
		return part{}, io.EOF
	case err == io.ErrUnexpectedEOF:
		// Final, shorter part.
		r.done = true
	case err != nil:
		r.done = true
		r.bufs.Put(buf)
		return part{}, errors.NewError("readPart",
			fmt.Errorf("%w: part %d: %w", errors.ErrSourceRead, r.next, err))
	}

	p := part{number: r.next, payload: buf[:n]}
	r.next++
	return p, nil
}
