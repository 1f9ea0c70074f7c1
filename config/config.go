// Package config loads destination and tuning configuration from the
// environment for tools built on the transfer client.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/ttksm/s3transfer/internal/chunksize"
	"github.com/ttksm/s3transfer/internal/validation"
)

// Config groups everything a one-shot uploader needs.
type Config struct {
	Destination Destination
	Tuning      Tuning
}

// Destination names where objects land and how to authenticate.
type Destination struct {
	Bucket    string `envconfig:"S3_BUCKET" required:"true"`
	KeyPrefix string `envconfig:"S3_KEY_PREFIX" default:""`
	Region    string `envconfig:"AWS_REGION" default:""`
	Profile   string `envconfig:"AWS_PROFILE" default:""`
	Endpoint  string `envconfig:"S3_ENDPOINT" default:""`
}

// Tuning controls multipart behavior.
type Tuning struct {
	MaxConcurrentRequests int    `envconfig:"S3_MAX_CONCURRENT_REQUESTS" default:"5"`
	MultipartChunksize    string `envconfig:"S3_MULTIPART_CHUNKSIZE" default:"8MB"`
	MultipartThreshold    int64  `envconfig:"S3_MULTIPART_THRESHOLD" default:"104857600"` // 100MB
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values without touching the network.
func (c *Config) Validate() error {
	if err := validation.ValidateBucketName(c.Destination.Bucket); err != nil {
		return fmt.Errorf("S3_BUCKET: %w", err)
	}
	if err := validation.ValidateRegion(c.Destination.Region); err != nil {
		return fmt.Errorf("AWS_REGION: %w", err)
	}
	if c.Tuning.MaxConcurrentRequests < 1 {
		return fmt.Errorf("S3_MAX_CONCURRENT_REQUESTS must be positive, got %d",
			c.Tuning.MaxConcurrentRequests)
	}
	if _, err := chunksize.Resolve(c.Tuning.MultipartChunksize, chunksize.SizeUnknown); err != nil {
		return fmt.Errorf("S3_MULTIPART_CHUNKSIZE: %w", err)
	}
	if c.Tuning.MultipartThreshold < 1 {
		return fmt.Errorf("S3_MULTIPART_THRESHOLD must be positive, got %d",
			c.Tuning.MultipartThreshold)
	}
	return nil
}
