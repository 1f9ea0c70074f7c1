// Package s3types provides shared type definitions for the s3transfer module.
package s3types

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
)

// UploadConfig holds resolved configuration for a single upload operation.
// The chunk size has already been converted from its string spec to bytes by
// the time this struct is constructed; it is fixed for the lifetime of the
// upload because S3 requires all parts but the last to be equal-sized.
type UploadConfig struct {
	// ContentType is the MIME type recorded on the destination object.
	ContentType string

	// Metadata contains user-defined object metadata.
	Metadata map[string]string

	// ChunkSize is the fixed part payload size in bytes.
	ChunkSize int64

	// Concurrency bounds the number of simultaneously in-flight part uploads.
	Concurrency int

	// Logger receives best-effort cleanup diagnostics (abort failures).
	Logger *log.Logger
}

// UploadResult contains the result of an upload operation.
type UploadResult struct {
	// Key is the S3 object key that was uploaded
	Key string

	// Size is the size of the uploaded object in bytes
	Size int64

	// ETag is the S3 entity tag for the uploaded object
	ETag string

	// VersionID is the version ID if versioning is enabled
	VersionID string

	// Parts is the number of parts uploaded (0 for single-shot puts)
	Parts int32

	// Duration is how long the upload took
	Duration time.Duration
}

// BatchResult contains the result of a multi-file upload.
type BatchResult struct {
	// Uploaded holds the per-file results of successful uploads, keyed by
	// local path.
	Uploaded map[string]*UploadResult

	// Duration is how long the whole batch took.
	Duration time.Duration
}

// ClientConfig holds configuration for the transfer client.
type ClientConfig struct {
	Region             string
	Profile            string
	Endpoint           string
	MaxRetries         int
	Timeout            time.Duration
	Concurrency        int
	ChunkSize          string // human size spec, e.g. "10MB"
	MultipartThreshold int64
	ForcePathStyle     bool
	Credentials        aws.CredentialsProvider
	CustomAWSConfig    *aws.Config
	CustomHTTPClient   *http.Client
	Logger             *log.Logger
	Filesystem         billy.Filesystem
}

// UploadOptionConfig holds per-operation configuration applied via functional
// options. Zero values fall back to the client-level defaults.
type UploadOptionConfig struct {
	ContentType string
	Metadata    map[string]string
	ChunkSize   string
	Concurrency int
}

// Option is a functional option for configuring the transfer client.
type (
	Option func(*ClientConfig)
	// UploadOption is a functional option for configuring a single upload.
	UploadOption func(*UploadOptionConfig)
)
