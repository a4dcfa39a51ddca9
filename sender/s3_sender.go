package sender

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	aws_pkg "sportsstore/pkg/aws"

	"github.com/google/uuid"
)

// S3Sender stores each message as an object under s3://bucket/prefix.
type S3Sender struct {
	putter aws_pkg.ObjectPutter
	bucket string
	prefix string
	from   string
}

// ParseS3Location splits an s3://bucket/prefix location.
func ParseS3Location(location string) (bucket, prefix string, err error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid s3 location %q", location)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}

func IsS3Location(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

func NewS3Sender(putter aws_pkg.ObjectPutter, location, from string) (*S3Sender, error) {
	bucket, prefix, err := ParseS3Location(location)
	if err != nil {
		return nil, err
	}
	return &S3Sender{putter: putter, bucket: bucket, prefix: prefix, from: from}, nil
}

func (s *S3Sender) SendEmail(ctx context.Context, to, subject, body string) (SendResult, error) {
	now := time.Now()
	key := path.Join(s.prefix, fmt.Sprintf("%s-%s.eml", now.UTC().Format("20060102T150405"), uuid.NewString()))

	if err := s.putter.PutObject(ctx, s.bucket, key, "message/rfc822", buildMessage(s.from, to, subject, body)); err != nil {
		return SendResult{}, err
	}
	return SendResult{MessageID: "s3://" + s.bucket + "/" + key, SentAt: now, Channel: "s3"}, nil
}
