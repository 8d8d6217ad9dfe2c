package objectstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreS3Seams(t *testing.T) {
	t.Helper()
	origLoad, origNew, origPut := loadDefaultAWSConfig, newS3ClientFromConfig, putObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, putObject = origLoad, origNew, origPut
	})
}

func newTestS3Store(t *testing.T, opts S3Options) (*S3Store, *s3.Options) {
	t.Helper()
	restoreS3Seams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, opts.Region, lo.Region)
		return aws.Config{}, nil
	}
	captured := &s3.Options{}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(captured)
		}
		return &s3.Client{}
	}

	st, err := NewS3Store(context.Background(), opts)
	require.NoError(t, err)
	return st, captured
}

func TestNewS3Store_Endpoint(t *testing.T) {
	st, o := newTestS3Store(t, S3Options{Region: "us-east-1", Endpoint: "http://127.0.0.1:9000", Bucket: "fz"})
	require.NotNil(t, o.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *o.BaseEndpoint)
	assert.True(t, o.UsePathStyle)
	assert.Equal(t, "http://127.0.0.1:9000/fz", st.base)
}

func TestNewS3Store_NoEndpoint(t *testing.T) {
	st, o := newTestS3Store(t, S3Options{Region: "eu-west-1", Bucket: "fz"})
	assert.Nil(t, o.BaseEndpoint)
	assert.Equal(t, "https://fz.s3.eu-west-1.amazonaws.com", st.base)
}

func TestNewS3Store_ConfigError(t *testing.T) {
	restoreS3Seams(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	_, err := NewS3Store(context.Background(), S3Options{})
	require.ErrorContains(t, err, "load-fail")
}

func TestS3Store_Upload(t *testing.T) {
	st, _ := newTestS3Store(t, S3Options{Region: "us-east-1", Bucket: "fz"})

	var got *s3.PutObjectInput
	var body string
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		got = in
		b, _ := io.ReadAll(in.Body)
		body = string(b)
		return &s3.PutObjectOutput{}, nil
	}

	// non-seekable reader gets buffered
	r := io.MultiReader(strings.NewReader("ab"), strings.NewReader("c"))
	require.NoError(t, st.Upload(context.Background(), "images/u1/1_a.png", r, -1, "image/png"))

	assert.Equal(t, "fz", aws.ToString(got.Bucket))
	assert.Equal(t, "images/u1/1_a.png", aws.ToString(got.Key))
	assert.Equal(t, int64(3), aws.ToInt64(got.ContentLength))
	assert.Equal(t, "image/png", aws.ToString(got.ContentType))
	assert.Equal(t, "abc", body)

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("denied")
	}
	err := st.Upload(context.Background(), "k", strings.NewReader("x"), 1, "text/plain")
	require.ErrorContains(t, err, "put k: denied")
}

func TestS3Store_DownloadURL(t *testing.T) {
	tests := []struct {
		name string
		opts S3Options
		key  string
		want string
	}{
		{
			name: "aws",
			opts: S3Options{Region: "us-east-1", Bucket: "fz"},
			key:  "avatars/u1/profile-pic",
			want: "https://fz.s3.us-east-1.amazonaws.com/avatars/u1/profile-pic",
		},
		{
			name: "custom endpoint",
			opts: S3Options{Region: "us-east-1", Endpoint: "http://127.0.0.1:9000/", Bucket: "fz"},
			key:  "images/u1/1_a.png",
			want: "http://127.0.0.1:9000/fz/images/u1/1_a.png",
		},
		{
			name: "public base wins",
			opts: S3Options{Region: "us-east-1", Endpoint: "http://127.0.0.1:9000", Bucket: "fz", PublicURL: "https://cdn.example.com/fz/"},
			key:  "images/u1/2_my cat?.png",
			want: "https://cdn.example.com/fz/images/u1/2_my%20cat%3F.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, _ := newTestS3Store(t, tt.opts)
			u, err := st.DownloadURL(context.Background(), tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u)

			// locators are stored in messages, so they must not expire
			assert.NotContains(t, u, "X-Amz-")
			again, err := st.DownloadURL(context.Background(), tt.key)
			require.NoError(t, err)
			assert.Equal(t, u, again)
		})
	}

	st, _ := newTestS3Store(t, S3Options{Region: "us-east-1", Bucket: "fz"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := st.DownloadURL(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
}
