// Command s3put uploads one or more local files (or stdin) to S3 using the
// transfer client. Destination and tuning come from the environment; see the
// config package for the variable names.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/ttksm/s3transfer"
	"github.com/ttksm/s3transfer/config"
	"github.com/ttksm/s3transfer/s3types"
)

func Run(ctx context.Context) error {
	key := flag.String("key", "", "object key (defaults to the file's base name under the key prefix)")
	concurrency := flag.Int("concurrency", 0, "override S3_MAX_CONCURRENT_REQUESTS")
	chunkSize := flag.String("chunk-size", "", "override S3_MULTIPART_CHUNKSIZE, e.g. 16MB")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.InfoLevel,
		TimeFormat:      time.RFC3339,
		ReportTimestamp: true,
	})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *concurrency > 0 {
		cfg.Tuning.MaxConcurrentRequests = *concurrency
	}
	if *chunkSize != "" {
		cfg.Tuning.MultipartChunksize = *chunkSize
	}

	client, err := s3transfer.New(
		s3transfer.WithRegion(cfg.Destination.Region),
		s3transfer.WithProfile(cfg.Destination.Profile),
		s3transfer.WithEndpoint(cfg.Destination.Endpoint),
		s3transfer.WithMaxConcurrentRequests(cfg.Tuning.MaxConcurrentRequests),
		s3transfer.WithChunkSize(cfg.Tuning.MultipartChunksize),
		s3transfer.WithMultipartThreshold(cfg.Tuning.MultipartThreshold),
		s3transfer.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	bucket := cfg.Destination.Bucket
	prefix := cfg.Destination.KeyPrefix
	paths := flag.Args()

	// No files named: read stdin, which requires an explicit key.
	if len(paths) == 0 {
		if *key == "" {
			return fmt.Errorf("uploading from stdin requires -key")
		}
		objectKey := path.Join(prefix, *key)
		logger.Info("uploading from stdin", "bucket", bucket, "key", objectKey)

		result, err := client.Upload(ctx, bucket, objectKey, os.Stdin)
		if err != nil {
			return err
		}
		logResult(logger, result)
		return nil
	}

	if len(paths) == 1 {
		objectKey := *key
		if objectKey == "" {
			objectKey = path.Base(paths[0])
		}
		objectKey = path.Join(prefix, objectKey)
		logger.Info("uploading file", "bucket", bucket, "key", objectKey, "path", paths[0])

		result, err := client.UploadFile(ctx, bucket, objectKey, paths[0])
		if err != nil {
			return err
		}
		logResult(logger, result)
		return nil
	}

	if *key != "" {
		return fmt.Errorf("-key cannot be combined with multiple files")
	}

	logger.Info("uploading files", "bucket", bucket, "prefix", prefix, "count", len(paths))
	batch, err := client.UploadFiles(ctx, bucket, prefix, paths)
	if batch != nil {
		for p, result := range batch.Uploaded {
			logger.Info("uploaded", "path", p, "key", result.Key,
				"size", humanize.IBytes(uint64(result.Size)))
		}
	}
	if err != nil {
		return err
	}
	logger.Info("batch complete", "count", len(batch.Uploaded), "duration", batch.Duration)
	return nil
}

func logResult(logger *log.Logger, result *s3types.UploadResult) {
	logger.Info("upload complete",
		"key", result.Key,
		"size", humanize.IBytes(uint64(result.Size)),
		"parts", result.Parts,
		"etag", result.ETag,
		"duration", result.Duration)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		log.Error("s3put exited with error", "error", err)
		os.Exit(1)
	}
}
