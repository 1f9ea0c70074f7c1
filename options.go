// Functional options for configuring client and per-upload behavior.
package s3transfer

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"

	"github.com/ttksm/s3transfer/s3types"
)

// WithRegion sets the AWS region for S3 operations.
// The region must look like a real AWS region identifier (e.g. "us-west-2").
func WithRegion(region string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Region = region
	}
}

// WithProfile selects a named profile from the shared AWS credentials file.
// If not specified, the default credential chain is used.
func WithProfile(profile string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Profile = profile
	}
}

// WithStaticCredentials sets explicit access credentials, bypassing the
// credential chain entirely. Intended for S3-compatible endpoints and tests.
func WithStaticCredentials(accessKey, secretKey, sessionToken string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Credentials = credentials.NewStaticCredentialsProvider(
			accessKey, secretKey, sessionToken)
	}
}

// WithCredentialsProvider sets a custom AWS credentials provider.
func WithCredentialsProvider(provider aws.CredentialsProvider) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Credentials = provider
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
func WithEndpoint(endpoint string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithForcePathStyle forces path-style URLs instead of virtual-hosted style.
// Required for S3-compatible services that don't support virtual hosting.
func WithForcePathStyle(forcePathStyle bool) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithMaxRetries sets the maximum number of retry attempts for failed
// requests. Default is 3.
func WithMaxRetries(maxRetries int) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithTimeout bounds AWS configuration loading. Default is no timeout.
func WithTimeout(timeout time.Duration) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithMaxConcurrentRequests sets the maximum number of simultaneously
// in-flight part uploads. Default is 5.
func WithMaxConcurrentRequests(n int) s3types.Option {
	return func(c *s3types.ClientConfig) {
		if n > 0 {
			c.Concurrency = n
		}
	}
}

// WithChunkSize sets the default multipart chunk size as a human-readable
// size spec such as "16MB". It is resolved and validated per upload.
func WithChunkSize(spec string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		if spec != "" {
			c.ChunkSize = spec
		}
	}
}

// WithMultipartThreshold sets the source size, in bytes, at which Upload
// switches from a single put to a multipart session.
func WithMultipartThreshold(threshold int64) s3types.Option {
	return func(c *s3types.ClientConfig) {
		if threshold > 0 {
			c.MultipartThreshold = threshold
		}
	}
}

// WithCustomHTTPClient allows providing a custom HTTP client.
func WithCustomHTTPClient(client *http.Client) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomHTTPClient = client
	}
}

// WithAWSConfig allows providing a fully custom AWS configuration.
// This overrides the default configuration loading behavior.
func WithAWSConfig(config *aws.Config) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithLogger sets the structured logger for the client.
// Default logs at warn level to stderr.
func WithLogger(logger *log.Logger) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Logger = logger
	}
}

// WithFilesystem sets a custom filesystem implementation for file
// operations. If not specified, the OS filesystem is used.
func WithFilesystem(fs billy.Filesystem) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Filesystem = fs
	}
}

// WithContentType sets the content type for a single upload, overriding
// automatic detection.
func WithContentType(contentType string) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.ContentType = contentType
	}
}

// WithMetadata sets user-defined object metadata for a single upload.
func WithMetadata(metadata map[string]string) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		if c.Metadata == nil {
			c.Metadata = make(map[string]string)
		}
		for k, v := range metadata {
			c.Metadata[k] = v
		}
	}
}

// WithUploadChunkSize overrides the client-level chunk size spec for a
// single upload.
func WithUploadChunkSize(spec string) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		if spec != "" {
			c.ChunkSize = spec
		}
	}
}

// WithUploadConcurrency overrides the client-level concurrency bound for a
// single upload.
func WithUploadConcurrency(concurrency int) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}
