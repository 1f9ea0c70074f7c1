// Package s3transfer provides client initialization and configuration.
//
// The Client provides a high-level interface for moving data into Amazon S3,
// switching between single-shot puts and concurrent multipart uploads based
// on source size, with configurable chunk size and concurrency bounds.
package s3transfer

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/ttksm/s3transfer/errors"
	"github.com/ttksm/s3transfer/internal/s3api"
	"github.com/ttksm/s3transfer/internal/validation"
	"github.com/ttksm/s3transfer/s3types"
)

const (
	// DefaultChunkSize is the chunk size spec applied when neither the client
	// nor the upload call sets one.
	DefaultChunkSize = "8MB"

	// DefaultMultipartThreshold is the source size at which Upload switches
	// from a single PutObject to a multipart session.
	DefaultMultipartThreshold int64 = 100 * 1024 * 1024

	// DefaultConcurrency bounds simultaneously in-flight part uploads when no
	// explicit value is configured.
	DefaultConcurrency = 5

	// DefaultContentType is used when content detection yields nothing.
	DefaultContentType = "application/octet-stream"
)

// Client moves data into S3. It is safe for concurrent use; per-upload state
// lives entirely inside each call.
type Client struct {
	// s3Client is the underlying AWS SDK S3 client
	s3Client s3api.S3API

	// config holds the resolved client configuration
	config *s3types.ClientConfig

	// awsConfig holds the AWS configuration the client was built from
	awsConfig aws.Config

	// fs is the filesystem abstraction for file operations
	fs billy.Filesystem

	// logger receives best-effort cleanup diagnostics
	logger *log.Logger
}

// New creates a new transfer client with the provided options.
// Credentials and region are resolved explicitly from the options; absent
// any, the default AWS credential chain is used.
//
// Example:
//
//	client, err := s3transfer.New(
//	    s3transfer.WithRegion("us-west-2"),
//	    s3transfer.WithProfile("deploy"),
//	    s3transfer.WithMaxConcurrentRequests(8),
//	)
func New(opts ...s3types.Option) (*Client, error) {
	clientCfg := &s3types.ClientConfig{
		MaxRetries:         3,
		Concurrency:        DefaultConcurrency,
		ChunkSize:          DefaultChunkSize,
		MultipartThreshold: DefaultMultipartThreshold,
	}
	for _, opt := range opts {
		opt(clientCfg)
	}

	if err := validation.ValidateRegion(clientCfg.Region); err != nil {
		return nil, errors.NewError("client initialization",
			errors.ErrInvalidRegion).WithMessage(err.Error())
	}

	cfg, err := resolveAWSConfig(clientCfg)
	if err != nil {
		return nil, errors.NewError("client initialization", err)
	}

	var s3Opts []func(*s3.Options)
	if clientCfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(clientCfg.Endpoint)
		})
	}
	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	if clientCfg.CustomHTTPClient != nil {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = clientCfg.CustomHTTPClient
		})
	}

	s3Client := s3.NewFromConfig(cfg, s3Opts...)

	fs := clientCfg.Filesystem
	if fs == nil {
		fs = osfs.New("/")
	}

	logger := clientCfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	}

	return &Client{
		s3Client:  s3Client,
		config:    clientCfg,
		awsConfig: cfg,
		fs:        fs,
		logger:    logger,
	}, nil
}

// resolveAWSConfig builds the AWS configuration from the client options.
// Precedence: a fully custom config wins, then explicit static credentials,
// then a named profile, then the default chain.
func resolveAWSConfig(clientCfg *s3types.ClientConfig) (aws.Config, error) {
	if clientCfg.CustomAWSConfig != nil {
		cfg := *clientCfg.CustomAWSConfig
		if clientCfg.Region != "" {
			cfg.Region = clientCfg.Region
		}
		return cfg, nil
	}

	var loadOpts []func(*config.LoadOptions) error
	if clientCfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(clientCfg.Region))
	}
	if clientCfg.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(clientCfg.Profile))
	}
	if clientCfg.Credentials != nil {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(clientCfg.Credentials))
	}
	if clientCfg.MaxRetries > 0 {
		loadOpts = append(loadOpts, config.WithRetryMaxAttempts(clientCfg.MaxRetries))
	}

	ctx := context.Background()
	if clientCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, clientCfg.Timeout)
		defer cancel()
	}

	return config.LoadDefaultConfig(ctx, loadOpts...)
}

// NewWithClient creates a transfer client around a custom S3API
// implementation. This is primarily used for testing with mocked clients.
func NewWithClient(s3Client s3api.S3API, opts ...s3types.Option) *Client {
	clientCfg := &s3types.ClientConfig{
		Concurrency:        DefaultConcurrency,
		ChunkSize:          DefaultChunkSize,
		MultipartThreshold: DefaultMultipartThreshold,
	}
	for _, opt := range opts {
		opt(clientCfg)
	}

	fs := clientCfg.Filesystem
	if fs == nil {
		fs = osfs.New("/")
	}

	logger := clientCfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	}

	return &Client{
		s3Client: s3Client,
		config:   clientCfg,
		fs:       fs,
		logger:   logger,
	}
}

// SetFilesystem sets the filesystem implementation for file operations.
// Useful in tests that stage sources on an in-memory filesystem.
func (c *Client) SetFilesystem(fs billy.Filesystem) {
	c.fs = fs
}
