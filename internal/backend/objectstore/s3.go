// Package objectstore holds backend.Blobs drivers for S3-compatible object
// storage. Download locators are stable object URLs under a public base;
// see ReadPolicy for the access the bucket needs.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/friendszone/internal/backend"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

type S3Options struct {
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string // empty for AWS
	Bucket    string
	// PublicURL overrides the base of download locators.
	PublicURL string
}

type S3Store struct {
	client *s3.Client
	opts   S3Options
	base   string
}

var _ backend.Blobs = (*S3Store)(nil)

// s3BaseURL is where objects of the bucket are served: path style under a
// custom endpoint, virtual-hosted style on AWS.
func s3BaseURL(opts S3Options) string {
	switch {
	case opts.PublicURL != "":
		return opts.PublicURL
	case opts.Endpoint != "":
		return strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
}

func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, opts: opts, base: s3BaseURL(opts)}, nil
}

func (s *S3Store) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) error {
	body, ok := r.(io.ReadSeeker)
	if !ok {
		// plain-HTTP endpoints need a seekable body to sign the payload
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		body = bytes.NewReader(data)
		size = int64(len(data))
	}

	_, err := putObject(s.client, ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.opts.Bucket),
		Key:           aws.String(path),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	return nil
}

// DownloadURL returns the object's durable URL. It does not check that the
// object exists.
func (s *S3Store) DownloadURL(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return objectURL(s.base, path), nil
}
