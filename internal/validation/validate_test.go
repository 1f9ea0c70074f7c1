package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ttksm/s3transfer/errors"
)

func TestValidateBucketName(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		wantErr bool
	}{
		{name: "valid simple name", bucket: "my-bucket"},
		{name: "valid with dots", bucket: "my.bucket.backups"},
		{name: "valid with numbers", bucket: "bucket123"},
		{name: "empty", bucket: "", wantErr: true},
		{name: "too short", bucket: "ab", wantErr: true},
		{name: "too long", bucket: strings.Repeat("a", 64), wantErr: true},
		{name: "uppercase", bucket: "MyBucket", wantErr: true},
		{name: "underscore", bucket: "my_bucket", wantErr: true},
		{name: "leading hyphen", bucket: "-bucket", wantErr: true},
		{name: "trailing dot", bucket: "bucket.", wantErr: true},
		{name: "adjacent dots", bucket: "my..bucket", wantErr: true},
		{name: "ip address", bucket: "192.168.1.1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBucketName(tt.bucket)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidBucketName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "valid simple key", key: "data.csv"},
		{name: "valid nested key", key: "exports/2024/data.csv.0001"},
		{name: "empty", key: "", wantErr: true},
		{name: "path traversal", key: "../etc/passwd", wantErr: true},
		{name: "embedded traversal", key: "a/../../b", wantErr: true},
		{name: "absolute path", key: "/etc/passwd", wantErr: true},
		{name: "too long", key: strings.Repeat("k", 1025), wantErr: true},
		{name: "control character", key: "bad\x00key", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidObjectKey)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRegion(t *testing.T) {
	tests := []struct {
		name    string
		region  string
		wantErr bool
	}{
		{name: "empty is allowed", region: ""},
		{name: "us-east-1", region: "us-east-1"},
		{name: "eu-central-1", region: "eu-central-1"},
		{name: "ap-southeast-2", region: "ap-southeast-2"},
		{name: "us-gov-west-1", region: "us-gov-west-1"},
		{name: "bare word", region: "mars", wantErr: true},
		{name: "missing number", region: "us-east", wantErr: true},
		{name: "uppercase", region: "US-EAST-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegion(tt.region)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidRegion)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
