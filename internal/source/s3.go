package source

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Fetcher reads s3://bucket/key locations. The AWS session is created
// lazily on first use so that a service never touching S3 needs no credentials.
type S3Fetcher struct {
	region string

	once   sync.Once
	client s3iface.S3API
	err    error
}

// NewS3Fetcher returns an S3Fetcher for the given AWS region.
func NewS3Fetcher(region string) *S3Fetcher {
	return &S3Fetcher{region: region}
}

// NewS3FetcherWithClient returns an S3Fetcher using an existing client.
func NewS3FetcherWithClient(client s3iface.S3API) *S3Fetcher {
	f := &S3Fetcher{client: client}
	f.once.Do(func() {})
	return f
}

func (f *S3Fetcher) s3Client() (s3iface.S3API, error) {
	f.once.Do(func() {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(f.region),
		})
		if err != nil {
			f.err = fmt.Errorf("failed to create AWS session: %w", err)
			return
		}
		f.client = s3.New(sess)
	})
	return f.client, f.err
}

func (f *S3Fetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return nil, err
	}
	client, err := f.s3Client()
	if err != nil {
		return nil, err
	}

	out, err := client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch s3 object %s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

// ParseS3Location splits s3://bucket/key into its bucket and key.
func ParseS3Location(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", "", fmt.Errorf("invalid s3 location %q", location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 location %q: bucket and key are required", location)
	}
	return bucket, key, nil
}
