//go:build integration
// +build integration

package s3transfer_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttksm/s3transfer"
	"github.com/ttksm/s3transfer/internal/testutil"
)

// newRawClient builds a plain SDK client for bucket setup and verification.
func newRawClient(t *testing.T, ls *testutil.LocalStackContainer) *s3.Client {
	t.Helper()

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(ls.Region()),
		awsconfig.WithCredentialsProvider(ls.Credentials()),
	)
	require.NoError(t, err)

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(ls.Endpoint())
		o.UsePathStyle = true
	})
}

func fetchObject(t *testing.T, raw *s3.Client, bucket, key string) []byte {
	t.Helper()

	output, err := raw.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	require.NoError(t, err)
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	require.NoError(t, err)
	return data
}

func TestIntegration_Transfers(t *testing.T) {
	ls, cleanup := testutil.StartLocalStack(t)
	defer cleanup()

	ctx := context.Background()
	raw := newRawClient(t, ls)

	bucket := testutil.RandomBucket()
	_, err := raw.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	})
	require.NoError(t, err)

	client, err := s3transfer.New(
		s3transfer.WithRegion(ls.Region()),
		s3transfer.WithCredentialsProvider(ls.Credentials()),
		s3transfer.WithEndpoint(ls.Endpoint()),
		s3transfer.WithForcePathStyle(true),
		// Low threshold so moderate payloads exercise the multipart path.
		s3transfer.WithMultipartThreshold(1024*1024),
		s3transfer.WithChunkSize("5MiB"),
		s3transfer.WithMaxConcurrentRequests(4),
	)
	require.NoError(t, err)

	t.Run("put object round trip", func(t *testing.T) {
		key := testutil.RandomKey("put")
		data := []byte("hello from the put path")

		result, err := client.PutObject(ctx, bucket, key, data)
		require.NoError(t, err)
		assert.NotEmpty(t, result.ETag)
		assert.Equal(t, data, fetchObject(t, raw, bucket, key))
	})

	t.Run("small reader uses single put", func(t *testing.T) {
		key := testutil.RandomKey("small")
		data := testutil.RandomData(64 * 1024)

		result, err := client.Upload(ctx, bucket, key, bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, int32(0), result.Parts)
		assert.Equal(t, data, fetchObject(t, raw, bucket, key))
	})

	t.Run("large reader uses multipart", func(t *testing.T) {
		key := testutil.RandomKey("multipart")
		// Two parts: one full 5 MiB chunk plus a 1 MiB tail.
		data := testutil.RandomData(6 * 1024 * 1024)

		result, err := client.Upload(ctx, bucket, key, bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, int32(2), result.Parts)
		assert.Equal(t, int64(len(data)), result.Size)
		assert.Equal(t, data, fetchObject(t, raw, bucket, key))
	})

	t.Run("upload file", func(t *testing.T) {
		key := testutil.RandomKey("file")
		data := testutil.RandomData(128 * 1024)
		path := filepath.Join(t.TempDir(), "payload.bin")
		require.NoError(t, os.WriteFile(path, data, 0o644))

		result, err := client.UploadFile(ctx, bucket, key, path)
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), result.Size)
		assert.Equal(t, data, fetchObject(t, raw, bucket, key))
	})

	t.Run("object exists and delete", func(t *testing.T) {
		key := testutil.RandomKey("exists")
		_, err := client.PutObject(ctx, bucket, key, []byte("x"))
		require.NoError(t, err)

		exists, err := client.ObjectExists(ctx, bucket, key)
		require.NoError(t, err)
		assert.True(t, exists)

		missing, err := client.ObjectExists(ctx, bucket, key+".absent")
		require.NoError(t, err)
		assert.False(t, missing)

		require.NoError(t, client.DeleteObject(ctx, bucket, key))
		exists, err = client.ObjectExists(ctx, bucket, key)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("upload files batch", func(t *testing.T) {
		dir := t.TempDir()
		paths := make([]string, 0, 3)
		contents := map[string][]byte{
			"one.txt":   []byte("first"),
			"two.txt":   []byte("second"),
			"three.txt": []byte("third"),
		}
		for name, data := range contents {
			p := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(p, data, 0o644))
			paths = append(paths, p)
		}

		batch, err := client.UploadFiles(ctx, bucket, "batch", paths)
		require.NoError(t, err)
		assert.Len(t, batch.Uploaded, 3)

		for name, data := range contents {
			assert.Equal(t, data, fetchObject(t, raw, bucket, "batch/"+name))
		}
	})
}
