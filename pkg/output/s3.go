package output

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// DefaultUploadTimeout bounds a single upload when S3Config.Timeout is zero
const DefaultUploadTimeout = 10 * time.Second

// S3Config holds the object storage settings
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
	Bucket    string
	Prefix    string        // Key prefix, e.g. "renders"
	ACL       string        // Canned ACL, e.g. "public-read"
	CDNURL    string        // Public base URL for uploaded objects
	Timeout   time.Duration // Per-upload timeout
}

// Enabled reports whether a bucket is configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// ObjectPutter is the part of the S3 client the sink uses
type ObjectPutter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// S3Sink uploads images as PNG objects
type S3Sink struct {
	config S3Config
	client ObjectPutter
}

// NewS3Sink creates a sink with a client for the configured endpoint
func NewS3Sink(config S3Config) (*S3Sink, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, ""),
		Endpoint:         aws.String(config.Endpoint),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return NewS3SinkWithClient(config, s3.New(sess)), nil
}

// NewS3SinkWithClient creates a sink around an existing client
func NewS3SinkWithClient(config S3Config, client ObjectPutter) *S3Sink {
	if config.Timeout <= 0 {
		config.Timeout = DefaultUploadTimeout
	}
	return &S3Sink{config: config, client: client}
}

// Key returns the object key used for name. PNG is always uploaded.
func (s *S3Sink) Key(name string) string {
	name = strings.TrimSuffix(name, path.Ext(name)) + ".png"
	return path.Join(s.config.Prefix, name)
}

// Write uploads img and returns its public URL, or an s3:// location without a CDN
func (s *S3Sink) Write(ctx context.Context, name string, img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	key := s.Key(name)
	if err := s.upload(ctx, data, key); err != nil {
		return "", err
	}
	if s.config.CDNURL != "" {
		return strings.TrimSuffix(s.config.CDNURL, "/") + "/" + key, nil
	}
	return fmt.Sprintf("s3://%s/%s", s.config.Bucket, key), nil
}

func (s *S3Sink) upload(ctx context.Context, data []byte, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	size := int64(len(data))
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("image/png"),
	}
	if s.config.ACL != "" {
		input.ACL = aws.String(s.config.ACL)
	}

	if _, err := s.client.PutObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Printf("Uploaded %s to S3 (%d bytes)", key, size)
	return nil
}
