// Package s3transfer provides a high-level Go module for uploading data to
// AWS S3. It wraps AWS SDK v2 with automatic routing between single-shot
// puts and concurrent multipart uploads, bounded concurrency, and atomic
// finalization: an object either appears complete or the session is aborted.
//
// Key features:
//   - Simple, zero-configuration usage with AWS credential chain
//   - Progressive enhancement through functional options
//   - Automatic multipart upload above a configurable size threshold
//   - Bounded concurrent part uploads with fixed chunk sizes
//   - Automatic session abort on any part failure
//   - Content type detection for files and byte payloads
//
// Example usage:
//
//	client, err := s3transfer.New(
//	    s3transfer.WithRegion("us-west-2"),
//	)
//	if err != nil {
//	    return err
//	}
//
//	// Upload a file
//	result, err := client.UploadFile(ctx, "my-bucket", "path/file.txt", "/local/file.txt")
//	if err != nil {
//	    return err
//	}
package s3transfer
