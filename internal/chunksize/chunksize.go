// Package chunksize converts human-readable multipart chunk-size specs into
// validated byte counts within the bounds S3 mandates for part sizes.
package chunksize

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/ttksm/s3transfer/errors"
)

const (
	// MinChunkSize is the smallest part payload S3 accepts for any part but
	// the last (5 MiB).
	MinChunkSize = 5 * 1024 * 1024

	// MaxChunkSize is the largest single part payload S3 accepts (5 GiB).
	MaxChunkSize = 5 * 1024 * 1024 * 1024

	// MaxPartCount is the maximum number of parts in one multipart upload.
	MaxPartCount = 10_000
)

// SizeUnknown is passed as sourceSize when the total source length is not
// known up front (e.g. a streaming reader).
const SizeUnknown int64 = -1

// Resolve parses a size spec such as "10MB" or "8MiB" and validates the
// resulting byte count against the store's part-size bounds. When sourceSize
// is known (>= 0), it also rejects chunk sizes that would force more than
// MaxPartCount parts. Pure; performs no I/O.
func Resolve(spec string, sourceSize int64) (int64, error) {
	if spec == "" {
		return 0, invalid("chunk size spec cannot be empty")
	}

	parsed, err := humanize.ParseBytes(spec)
	if err != nil {
		return 0, invalid(fmt.Sprintf("cannot parse %q as a size", spec))
	}

	size := int64(parsed)
	if size <= 0 {
		return 0, invalid("chunk size must be positive")
	}
	if size < MinChunkSize {
		return 0, invalid(fmt.Sprintf("chunk size %s is below the S3 minimum part size of %s",
			humanize.IBytes(uint64(size)), humanize.IBytes(uint64(MinChunkSize))))
	}
	if size > MaxChunkSize {
		return 0, invalid(fmt.Sprintf("chunk size %s exceeds the S3 maximum part size of %s",
			humanize.IBytes(uint64(size)), humanize.IBytes(uint64(MaxChunkSize))))
	}

	if sourceSize >= 0 {
		parts := partCount(sourceSize, size)
		if parts > MaxPartCount {
			return 0, invalid(fmt.Sprintf(
				"chunk size %s would require %d parts for a %s source; S3 allows at most %d",
				humanize.IBytes(uint64(size)), parts, humanize.IBytes(uint64(sourceSize)), MaxPartCount))
		}
	}

	return size, nil
}

// PartCount returns the number of parts a source of the given length splits
// into at the given chunk size. A zero-length source counts as one part
// because the session must still be finalized with at least one part.
func PartCount(sourceSize, chunkSize int64) int {
	return partCount(sourceSize, chunkSize)
}

func partCount(sourceSize, chunkSize int64) int {
	if sourceSize == 0 {
		return 1
	}
	return int((sourceSize + chunkSize - 1) / chunkSize)
}

func invalid(msg string) error {
	return errors.NewError("resolveChunkSize", errors.ErrInvalidChunkSize).WithMessage(msg)
}
