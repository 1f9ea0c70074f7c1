// Package multipart handles multipart upload sessions with concurrent part
// uploads and automatic abort on failure.
//
// One Upload call owns one multipart session for its whole lifetime. Parts
// are read sequentially from the source, dispatched to a worker pool bounded
// by the configured concurrency, and their completion tokens are collected
// over a single result channel. Completion order is unordered; only the final
// CompleteMultipartUpload call re-imposes part-number order. If anything
// fails, the coordinator drains all in-flight work first, then aborts the
// session and surfaces the triggering error.
package multipart

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"

	"github.com/ttksm/s3transfer/errors"
	"github.com/ttksm/s3transfer/internal/pool"
	"github.com/ttksm/s3transfer/internal/s3api"
	"github.com/ttksm/s3transfer/s3types"
)

// sessionState tracks the lifecycle of one multipart session. Transitions are
// monotonic and single-directional except for stateAborted, which is reachable
// from any non-terminal state.
type sessionState int

const (
	stateCreated sessionState = iota
	statePartsInFlight
	stateCompleting
	stateCompleted
	stateAborted
)

// session is the server-side handle grouping all parts of one in-progress
// multipart upload. It is owned exclusively by the coordinator; workers only
// ever see its immutable fields.
type session struct {
	id     string
	bucket string
	key    string
	state  sessionState
}

// transition advances the session state. Terminal states are sticky.
func (s *session) transition(next sessionState) {
	if s.state == stateAborted || s.state == stateCompleted {
		return
	}
	s.state = next
}

// partResult is the unit passed from a worker back to the coordinator.
type partResult struct {
	number int32
	etag   string
	size   int64
	err    error
}

// Uploader drives multipart upload sessions.
type Uploader struct {
	s3Client s3api.S3API
	logger   *log.Logger
}

// NewUploader creates a new multipart uploader.
func NewUploader(s3Client s3api.S3API, logger *log.Logger) *Uploader {
	return &Uploader{
		s3Client: s3Client,
		logger:   logger,
	}
}

// Upload performs a multipart upload of data from an io.Reader. The chunk
// size in cfg must already be resolved and validated; it is fixed for the
// lifetime of the upload because S3 requires all parts but the last to be
// equal-sized.
func (u *Uploader) Upload(
	ctx context.Context,
	bucket, key string,
	reader io.Reader,
	cfg *s3types.UploadConfig,
	startTime time.Time,
) (*s3types.UploadResult, error) {
	sess, err := u.createSession(ctx, bucket, key, cfg)
	if err != nil {
		// Nothing to clean up; the session never opened.
		return nil, err
	}

	completed, uploaded, uploadErr := u.dispatchAll(ctx, sess, reader, cfg)
	if uploadErr != nil {
		sess.transition(stateAborted)
		u.abortSession(ctx, sess)
		return nil, uploadErr
	}

	sess.transition(stateCompleting)
	output, err := u.completeSession(ctx, sess, completed)
	if err != nil {
		sess.transition(stateAborted)
		u.abortSession(ctx, sess)
		return nil, err
	}
	sess.transition(stateCompleted)

	return &s3types.UploadResult{
		Key:       key,
		Size:      uploaded,
		ETag:      aws.ToString(output.ETag),
		VersionID: aws.ToString(output.VersionId),
		Parts:     int32(len(completed)),
		Duration:  time.Since(startTime),
	}, nil
}

// createSession opens the multipart session and returns it in stateCreated.
func (u *Uploader) createSession(
	ctx context.Context,
	bucket, key string,
	cfg *s3types.UploadConfig,
) (*session, error) {
	input := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if cfg.ContentType != "" {
		input.ContentType = aws.String(cfg.ContentType)
	}
	if len(cfg.Metadata) > 0 {
		input.Metadata = cfg.Metadata
	}

	output, err := u.s3Client.CreateMultipartUpload(ctx, input)
	if err != nil {
		return nil, errors.NewError("createMultipartUpload",
			fmt.Errorf("%w: %w", errors.ErrSessionCreate, err)).
			WithBucket(bucket).WithKey(key)
	}

	return &session{
		id:     aws.ToString(output.UploadId),
		bucket: bucket,
		key:    key,
		state:  stateCreated,
	}, nil
}

// dispatchAll reads parts sequentially and uploads them concurrently, bounded
// by cfg.Concurrency. It blocks until every dispatched part has reported
// completion or failure (a full-barrier join, not a first-failure race): the
// session is never finalized on partial information. Once a failure has been
// observed, parts not yet dispatched are skipped; in-flight uploads are
// drained, never interrupted.
func (u *Uploader) dispatchAll(
	ctx context.Context,
	sess *session,
	reader io.Reader,
	cfg *s3types.UploadConfig,
) ([]completedPart, int64, error) {
	sess.transition(statePartsInFlight)

	bufs := pool.NewChunkPool(cfg.ChunkSize)
	parts := newPartReader(reader, bufs)

	// sem bounds both in-flight uploads and live payload buffers: a slot is
	// taken before the next chunk is read and released when its upload ends.
	sem := make(chan struct{}, cfg.Concurrency)
	results := make(chan partResult)
	var failed atomic.Bool

	go func() {
		var wg sync.WaitGroup
		defer func() {
			wg.Wait()
			close(results)
		}()

		for {
			if failed.Load() {
				return
			}
			sem <- struct{}{}

			p, err := parts.readPart()
			if err == io.EOF {
				<-sem
				return
			}
			if err != nil {
				<-sem
				results <- partResult{number: parts.next, err: err}
				return
			}

			wg.Add(1)
			go func(p part) {
				defer wg.Done()
				defer func() { <-sem }()

				etag, err := u.uploadPart(ctx, sess, p)
				bufs.Put(p.payload[:cap(p.payload)])
				results <- partResult{
					number: p.number,
					etag:   etag,
					size:   int64(len(p.payload)),
					err:    err,
				}
			}(p)
		}
	}()

	// Drain every result. Each dispatched part is accounted for exactly once.
	var completed []completedPart
	var uploaded int64
	var firstErr error
	var firstPart int32
	var related []error

	for res := range results {
		if res.err != nil {
			failed.Store(true)
			if firstErr == nil {
				firstErr = res.err
				firstPart = res.number
			} else {
				related = append(related, res.err)
			}
			continue
		}
		completed = append(completed, completedPart{number: res.number, etag: res.etag})
		uploaded += res.size
	}

	if firstErr != nil {
		return nil, 0, &errors.MultipartError{
			Bucket:  sess.bucket,
			Key:     sess.key,
			Part:    firstPart,
			Err:     firstErr,
			Related: joinErrors(related),
		}
	}

	// An empty source produces no parts, but the session must still be
	// finalized; S3 accepts a lone empty part.
	if len(completed) == 0 {
		etag, err := u.uploadPart(ctx, sess, part{number: 1})
		if err != nil {
			return nil, 0, &errors.MultipartError{
				Bucket: sess.bucket,
				Key:    sess.key,
				Part:   1,
				Err:    err,
			}
		}
		completed = append(completed, completedPart{number: 1, etag: etag})
	}

	return completed, uploaded, nil
}

// uploadPart uploads a single part and returns its completion token.
func (u *Uploader) uploadPart(ctx context.Context, sess *session, p part) (string, error) {
	input := &s3.UploadPartInput{
		Bucket:     aws.String(sess.bucket),
		Key:        aws.String(sess.key),
		UploadId:   aws.String(sess.id),
		PartNumber: aws.Int32(p.number),
		Body:       bytes.NewReader(p.payload),
	}

	output, err := u.s3Client.UploadPart(ctx, input)
	if err != nil {
		return "", errors.NewError("uploadPart",
			fmt.Errorf("%w: part %d: %w", errors.ErrPartUpload, p.number, err)).
			WithBucket(sess.bucket).WithKey(sess.key)
	}

	return aws.ToString(output.ETag), nil
}
