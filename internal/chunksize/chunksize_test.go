package chunksize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttksm/s3transfer/errors"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		spec       string
		sourceSize int64
		want       int64
		wantErr    bool
	}{
		{
			name:       "valid decimal megabytes",
			spec:       "10MB",
			sourceSize: SizeUnknown,
			want:       10_000_000,
		},
		{
			name:       "valid binary mebibytes",
			spec:       "8MiB",
			sourceSize: SizeUnknown,
			want:       8 * 1024 * 1024,
		},
		{
			name:       "exactly the minimum part size",
			spec:       "5MiB",
			sourceSize: SizeUnknown,
			want:       MinChunkSize,
		},
		{
			name:       "empty spec",
			spec:       "",
			sourceSize: SizeUnknown,
			wantErr:    true,
		},
		{
			name:       "unparseable spec",
			spec:       "ten megabytes",
			sourceSize: SizeUnknown,
			wantErr:    true,
		},
		{
			name:       "below minimum part size",
			spec:       "1MiB",
			sourceSize: SizeUnknown,
			wantErr:    true,
		},
		{
			name:       "above maximum part size",
			spec:       "6GiB",
			sourceSize: SizeUnknown,
			wantErr:    true,
		},
		{
			name:       "too many parts for known source size",
			spec:       "5MiB",
			sourceSize: int64(MinChunkSize)*MaxPartCount + 1,
			wantErr:    true,
		},
		{
			name:       "exactly the maximum part count",
			spec:       "5MiB",
			sourceSize: int64(MinChunkSize) * MaxPartCount,
			want:       MinChunkSize,
		},
		{
			name:       "known size fits comfortably",
			spec:       "10MiB",
			sourceSize: 25 * 1024 * 1024,
			want:       10 * 1024 * 1024,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.spec, tt.sourceSize)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidChunkSize(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	first, err := Resolve("16MiB", 100*1024*1024)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Resolve("16MiB", 100*1024*1024)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPartCount(t *testing.T) {
	tests := []struct {
		name       string
		sourceSize int64
		chunkSize  int64
		want       int
	}{
		{name: "empty source still needs one part", sourceSize: 0, chunkSize: MinChunkSize, want: 1},
		{name: "exact multiple", sourceSize: 20, chunkSize: 10, want: 2},
		{name: "trailing short part", sourceSize: 25, chunkSize: 10, want: 3},
		{name: "single short part", sourceSize: 3, chunkSize: 10, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PartCount(tt.sourceSize, tt.chunkSize))
		})
	}
}
