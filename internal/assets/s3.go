package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Source serves assets from objects under a bucket prefix.
type S3Source struct {
	svc    s3iface.S3API
	bucket string
	prefix string
}

// NewS3Source creates a source backed by a new AWS session in region.
// Credentials come from the default chain.
func NewS3Source(region, bucket, prefix string) (*S3Source, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("creating aws session: %w", err)
	}
	return NewS3SourceWithClient(s3.New(sess), bucket, prefix), nil
}

// NewS3SourceWithClient creates a source using an existing S3 client.
func NewS3SourceWithClient(svc s3iface.S3API, bucket, prefix string) *S3Source {
	return &S3Source{svc: svc, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Open implements Source.
func (s *S3Source) Open(name string) (io.ReadCloser, error) {
	key := strings.TrimLeft(path.Clean("/"+strings.ReplaceAll(name, "\\", "/")), "/")
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	out, err := s.svc.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound") {
			return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, key, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, key, err)
	}
	return out.Body, nil
}
