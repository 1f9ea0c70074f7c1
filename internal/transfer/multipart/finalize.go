package multipart

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ttksm/s3transfer/errors"
)

// completedPart pairs a part number with the completion token the store
// returned for it.
type completedPart struct {
	number int32
	etag   string
}

// completeSession assembles the completion tokens in part-number order and
// finalizes the session. The ascending sort is mandatory: the store's
// completion call requires strictly increasing part numbers regardless of the
// order in which uploads actually finished.
func (u *Uploader) completeSession(
	ctx context.Context,
	sess *session,
	completed []completedPart,
) (*s3.CompleteMultipartUploadOutput, error) {
	sort.Slice(completed, func(i, j int) bool {
		return completed[i].number < completed[j].number
	})

	parts := make([]awstypes.CompletedPart, len(completed))
	for i, p := range completed {
		parts[i] = awstypes.CompletedPart{
			PartNumber: aws.Int32(p.number),
			ETag:       aws.String(p.etag),
		}
	}

	input := &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(sess.bucket),
		Key:      aws.String(sess.key),
		UploadId: aws.String(sess.id),
		MultipartUpload: &awstypes.CompletedMultipartUpload{
			Parts: parts,
		},
	}

	output, err := u.s3Client.CompleteMultipartUpload(ctx, input)
	if err != nil {
		return nil, errors.NewError("completeMultipartUpload",
			fmt.Errorf("%w: %w", errors.ErrSessionComplete, err)).
			WithBucket(sess.bucket).WithKey(sess.key)
	}

	return output, nil
}

// abortSession cleans up a failed session. Best effort: its own failure is
// logged rather than returned, so it can never mask the error that triggered
// the abort.
func (u *Uploader) abortSession(ctx context.Context, sess *session) {
	input := &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(sess.bucket),
		Key:      aws.String(sess.key),
		UploadId: aws.String(sess.id),
	}

	if _, err := u.s3Client.AbortMultipartUpload(ctx, input); err != nil && u.logger != nil {
		u.logger.Warn("failed to abort multipart session",
			"bucket", sess.bucket, "key", sess.key, "uploadID", sess.id, "err", err)
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return stderrors.Join(errs...)
}
