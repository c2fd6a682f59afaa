// Package storage uploads poster images to S3.
package storage

import (
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Uploader wraps an S3 upload manager bound to one bucket.
type Uploader struct {
	bucket string
	mgr    *s3manager.Uploader
}

// NewUploader builds an Uploader for the given bucket using the default
// AWS credential chain (env vars, shared config).  Returns an error when
// the session cannot be created; callers may run without an uploader, in
// which case poster uploads are rejected at the handler.
func NewUploader(bucket string) (*Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage: bucket name is empty")
	}
	sess, err := session.NewSessionWithOptions(session.Options{SharedConfigState: session.SharedConfigEnable})
	if err != nil {
		return nil, err
	}
	return &Uploader{bucket: bucket, mgr: s3manager.NewUploader(sess)}, nil
}

// Save streams the file to S3 under a unique key and returns the public
// URL.  The nanosecond prefix keeps same-named uploads from clobbering
// each other.
func (u *Uploader) Save(r io.Reader, filename string) (string, error) {
	key := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filename)
	_, err := u.mgr.Upload(&s3manager.UploadInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key), nil
}
