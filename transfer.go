package s3transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/ttksm/s3transfer/errors"
	"github.com/ttksm/s3transfer/internal/chunksize"
	"github.com/ttksm/s3transfer/internal/transfer/multipart"
	"github.com/ttksm/s3transfer/internal/validation"
	"github.com/ttksm/s3transfer/s3types"
)

// Upload uploads data from an io.Reader to S3.
// Sources whose size is unknown or at least the multipart threshold are
// uploaded as a concurrent multipart session; smaller sources use a single
// PutObject call.
//
// Example:
//
//	result, err := client.Upload(ctx, "my-bucket", "backups/dump.bin", reader,
//	    s3transfer.WithUploadChunkSize("16MB"),
//	)
func (c *Client) Upload(
	ctx context.Context,
	bucket, key string,
	reader io.Reader,
	opts ...s3types.UploadOption,
) (*s3types.UploadResult, error) {
	if err := c.validateTarget("upload", bucket, key); err != nil {
		return nil, err
	}
	if reader == nil {
		return nil, errors.NewError("upload", errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("reader cannot be nil")
	}

	optCfg := c.applyUploadOptions(opts)
	size := sourceSize(reader)

	if size != chunksize.SizeUnknown && size < c.config.MultipartThreshold {
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, errors.NewError("upload",
				fmt.Errorf("%w: %w", errors.ErrSourceRead, err)).
				WithBucket(bucket).WithKey(key)
		}
		return c.putObject(ctx, bucket, key, data, optCfg, time.Now())
	}

	return c.multipartUpload(ctx, bucket, key, reader, size, optCfg, time.Now())
}

// UploadFile uploads a file from the local filesystem to S3.
// Content type is sniffed from the file's leading bytes unless set
// explicitly. Files at or above the multipart threshold use a concurrent
// multipart session.
//
// Example:
//
//	result, err := client.UploadFile(ctx, "my-bucket", "logs/app.log.gz", "/var/log/app.log.gz")
func (c *Client) UploadFile(
	ctx context.Context,
	bucket, key, filePath string,
	opts ...s3types.UploadOption,
) (*s3types.UploadResult, error) {
	if err := c.validateTarget("uploadFile", bucket, key); err != nil {
		return nil, err
	}
	if filePath == "" {
		return nil, errors.NewError("uploadFile", errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("file path cannot be empty")
	}

	info, err := c.fs.Stat(filePath)
	if err != nil {
		return nil, errors.NewError("uploadFile", err).WithBucket(bucket).WithKey(key)
	}
	if info.IsDir() {
		return nil, errors.NewError("uploadFile", errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("file path points to a directory, not a file")
	}

	file, err := c.fs.Open(filePath)
	if err != nil {
		return nil, errors.NewError("uploadFile", err).WithBucket(bucket).WithKey(key)
	}
	defer file.Close()

	optCfg := c.applyUploadOptions(opts)
	if optCfg.ContentType == "" {
		contentType, err := sniffContentType(file)
		if err != nil {
			return nil, errors.NewError("uploadFile",
				fmt.Errorf("%w: %w", errors.ErrSourceRead, err)).
				WithBucket(bucket).WithKey(key)
		}
		optCfg.ContentType = contentType
	}

	size := info.Size()
	startTime := time.Now()

	if size < c.config.MultipartThreshold {
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, errors.NewError("uploadFile",
				fmt.Errorf("%w: %w", errors.ErrSourceRead, err)).
				WithBucket(bucket).WithKey(key)
		}
		return c.putObject(ctx, bucket, key, data, optCfg, startTime)
	}

	return c.multipartUpload(ctx, bucket, key, file, size, optCfg, startTime)
}

// PutObject uploads byte data to S3 as a single object, bypassing the
// multipart machinery entirely. Content type is sniffed from the data
// unless set explicitly.
func (c *Client) PutObject(
	ctx context.Context,
	bucket, key string,
	data []byte,
	opts ...s3types.UploadOption,
) (*s3types.UploadResult, error) {
	if err := c.validateTarget("putObject", bucket, key); err != nil {
		return nil, err
	}

	optCfg := c.applyUploadOptions(opts)
	if optCfg.ContentType == "" {
		optCfg.ContentType = mimetype.Detect(data).String()
	}

	return c.putObject(ctx, bucket, key, data, optCfg, time.Now())
}

// ObjectExists reports whether an object with exactly the given key exists
// in the bucket. The check lists keys sharing the key as a prefix and scans
// for an exact match; only the first page of results is examined.
func (c *Client) ObjectExists(ctx context.Context, bucket, key string) (bool, error) {
	if err := c.validateTarget("objectExists", bucket, key); err != nil {
		return false, err
	}

	output, err := c.s3Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(key),
	})
	if err != nil {
		return false, errors.NewError("objectExists", err).WithBucket(bucket).WithKey(key)
	}

	for _, obj := range output.Contents {
		if aws.ToString(obj.Key) == key {
			return true, nil
		}
	}
	return false, nil
}

// DeleteObject removes an object from the bucket. Deleting a key that does
// not exist is not an error; S3 treats it as a no-op.
func (c *Client) DeleteObject(ctx context.Context, bucket, key string) error {
	if err := c.validateTarget("deleteObject", bucket, key); err != nil {
		return err
	}

	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.NewError("deleteObject", err).WithBucket(bucket).WithKey(key)
	}
	return nil
}

// UploadFiles uploads multiple local files in parallel, bounded by the
// client's concurrency setting. Each file is stored under keyPrefix joined
// with its base name. The first failure cancels files not yet started;
// results for files that completed before the failure are still returned.
func (c *Client) UploadFiles(
	ctx context.Context,
	bucket, keyPrefix string,
	paths []string,
	opts ...s3types.UploadOption,
) (*s3types.BatchResult, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, errors.NewError("uploadFiles", errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage(err.Error())
	}

	startTime := time.Now()
	result := &s3types.BatchResult{
		Uploaded: make(map[string]*s3types.UploadResult, len(paths)),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.Concurrency)

	for _, p := range paths {
		g.Go(func() error {
			key := path.Join(keyPrefix, filepath.Base(p))
			res, err := c.UploadFile(gctx, bucket, key, p, opts...)
			if err != nil {
				return fmt.Errorf("upload %s: %w", p, err)
			}
			mu.Lock()
			result.Uploaded[p] = res
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	result.Duration = time.Since(startTime)
	if err != nil {
		return result, err
	}
	return result, nil
}

// validateTarget applies the shared bucket and key checks for one operation.
func (c *Client) validateTarget(op, bucket, key string) error {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return errors.NewObjectError(op, bucket, key, errors.ErrInvalidInput).
			WithMessage(err.Error())
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return errors.NewObjectError(op, bucket, key, errors.ErrInvalidInput).
			WithMessage(err.Error())
	}
	return nil
}

// applyUploadOptions merges per-call options over the client defaults.
func (c *Client) applyUploadOptions(opts []s3types.UploadOption) *s3types.UploadOptionConfig {
	cfg := &s3types.UploadOptionConfig{
		ChunkSize:   c.config.ChunkSize,
		Concurrency: c.config.Concurrency,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// multipartUpload resolves the chunk size for this source and runs the
// multipart session.
func (c *Client) multipartUpload(
	ctx context.Context,
	bucket, key string,
	reader io.Reader,
	size int64,
	optCfg *s3types.UploadOptionConfig,
	startTime time.Time,
) (*s3types.UploadResult, error) {
	resolved, err := chunksize.Resolve(optCfg.ChunkSize, size)
	if err != nil {
		return nil, err
	}

	contentType := optCfg.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	uploader := multipart.NewUploader(c.s3Client, c.logger)
	return uploader.Upload(ctx, bucket, key, reader, &s3types.UploadConfig{
		ContentType: contentType,
		Metadata:    optCfg.Metadata,
		ChunkSize:   resolved,
		Concurrency: optCfg.Concurrency,
	}, startTime)
}

// putObject performs the single-shot path shared by Upload, UploadFile and
// PutObject.
func (c *Client) putObject(
	ctx context.Context,
	bucket, key string,
	data []byte,
	optCfg *s3types.UploadOptionConfig,
	startTime time.Time,
) (*s3types.UploadResult, error) {
	contentType := optCfg.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}
	if len(optCfg.Metadata) > 0 {
		input.Metadata = optCfg.Metadata
	}

	output, err := c.s3Client.PutObject(ctx, input)
	if err != nil {
		return nil, errors.NewError("putObject", err).WithBucket(bucket).WithKey(key)
	}

	return &s3types.UploadResult{
		Key:       key,
		Size:      int64(len(data)),
		ETag:      aws.ToString(output.ETag),
		VersionID: aws.ToString(output.VersionId),
		Duration:  time.Since(startTime),
	}, nil
}

// sourceSize determines the total size of a reader when it can be learned
// without consuming data. Returns chunksize.SizeUnknown otherwise.
func sourceSize(reader io.Reader) int64 {
	seeker, ok := reader.(io.Seeker)
	if !ok {
		return chunksize.SizeUnknown
	}

	cur, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return chunksize.SizeUnknown
	}
	end, err := seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return chunksize.SizeUnknown
	}
	if _, err := seeker.Seek(cur, io.SeekStart); err != nil {
		return chunksize.SizeUnknown
	}
	return end - cur
}

// sniffContentType reads the leading bytes of a seekable file to detect its
// MIME type, then rewinds so the upload sees the full content.
func sniffContentType(file io.ReadSeeker) (string, error) {
	header := make([]byte, 3072)
	n, err := io.ReadFull(file, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return mimetype.Detect(header[:n]).String(), nil
}
