package multipart

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3transfererrors "github.com/ttksm/s3transfer/errors"
	"github.com/ttksm/s3transfer/internal/pool"
	"github.com/ttksm/s3transfer/internal/testutil"
)

func readAllParts(t *testing.T, r *partReader) []part {
	t.Helper()

	var parts []part
	for {
		p, err := r.readPart()
		if err == io.EOF {
			return parts
		}
		require.NoError(t, err)
		// Copy out of the pool-owned buffer so the collected parts stay
		// stable if buffers are recycled.
		payload := make([]byte, len(p.payload))
		copy(payload, p.payload)
		parts = append(parts, part{number: p.number, payload: payload})
	}
}

func TestPartReader_SplitsAndNumbersSequentially(t *testing.T) {
	src := testutil.PatternedData(25)
	r := newPartReader(bytes.NewReader(src), pool.NewChunkPool(10))

	parts := readAllParts(t, r)
	require.Len(t, parts, 3)

	assert.Equal(t, int32(1), parts[0].number)
	assert.Equal(t, int32(2), parts[1].number)
	assert.Equal(t, int32(3), parts[2].number)
	assert.Len(t, parts[0].payload, 10)
	assert.Len(t, parts[1].payload, 10)
	assert.Len(t, parts[2].payload, 5)

	// Round trip: concatenation in number order equals the source.
	var got []byte
	for _, p := range parts {
		got = append(got, p.payload...)
	}
	assert.Equal(t, src, got)
}

func TestPartReader_PartCounts(t *testing.T) {
	tests := []struct {
		name      string
		sourceLen int
		chunkSize int64
		wantParts int
	}{
		{name: "empty source yields no parts", sourceLen: 0, chunkSize: 10, wantParts: 0},
		{name: "single short part", sourceLen: 7, chunkSize: 10, wantParts: 1},
		{name: "exact chunk boundary", sourceLen: 20, chunkSize: 10, wantParts: 2},
		{name: "trailing short part", sourceLen: 21, chunkSize: 10, wantParts: 3},
		{name: "single exact part", sourceLen: 10, chunkSize: 10, wantParts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := testutil.RandomData(tt.sourceLen)
			r := newPartReader(bytes.NewReader(src), pool.NewChunkPool(tt.chunkSize))

			parts := readAllParts(t, r)
			assert.Len(t, parts, tt.wantParts)
			for i, p := range parts {
				assert.Equal(t, int32(i+1), p.number)
			}
		})
	}
}

func TestPartReader_CoalescesShortReads(t *testing.T) {
	// OneByteReader forces every underlying read to return a single byte;
	// the reader must keep filling until each chunk is complete.
	src := testutil.PatternedData(25)
	r := newPartReader(iotest.OneByteReader(bytes.NewReader(src)), pool.NewChunkPool(10))

	parts := readAllParts(t, r)
	require.Len(t, parts, 3)
	assert.Len(t, parts[0].payload, 10)
	assert.Len(t, parts[1].payload, 10)
	assert.Len(t, parts[2].payload, 5)
}

func TestPartReader_SourceFailureTerminatesSequence(t *testing.T) {
	readErr := errors.New("disk on fire")
	src := io.MultiReader(
		bytes.NewReader(testutil.PatternedData(10)),
		iotest.ErrReader(readErr),
	)
	r := newPartReader(src, pool.NewChunkPool(10))

	p, err := r.readPart()
	require.NoError(t, err)
	assert.Equal(t, int32(1), p.number)

	_, err = r.readPart()
	require.Error(t, err)
	assert.ErrorIs(t, err, s3transfererrors.ErrSourceRead)
	assert.ErrorIs(t, err, readErr)

	// No further parts after an abnormal termination.
	_, err = r.readPart()
	assert.Equal(t, io.EOF, err)
}

func TestPartReader_NonRestartable(t *testing.T) {
	r := newPartReader(bytes.NewReader(testutil.PatternedData(5)), pool.NewChunkPool(10))

	parts := readAllParts(t, r)
	require.Len(t, parts, 1)

	_, err := r.readPart()
	assert.Equal(t, io.EOF, err)
	_, err = r.readPart()
	assert.Equal(t, io.EOF, err)
}
