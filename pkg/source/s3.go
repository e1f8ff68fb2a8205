package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectAPI is the subset of the S3 client used by S3Source
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Options configures the S3 client
type S3Options struct {
	Bucket string
	Key    string
	Region string
	// Endpoint overrides the service URL, e.g. for MinIO; path-style
	// addressing is enabled when set
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Source fetches a snapshot document stored as one object
type S3Source struct {
	client ObjectAPI
	bucket string
	key    string
}

// NewS3Source builds a client from the default AWS credential chain,
// or from static keys when both are given
func NewS3Source(ctx context.Context, opts S3Options) (*S3Source, error) {
	loaders := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loaders = append(loaders, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3SourceWithClient(client, opts.Bucket, opts.Key), nil
}

// NewS3SourceWithClient wraps an existing client
func NewS3SourceWithClient(client ObjectAPI, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

// Kind implements Source
func (s *S3Source) Kind() string { return "s3" }

// Snapshot implements Source
func (s *S3Source) Snapshot(ctx context.Context, q Query) (*Snapshot, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, s.wrap(err)
	}
	defer out.Body.Close()

	doc, err := DecodeDocument(out.Body, IsCompressed(s.key))
	if err != nil {
		return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, s.key, err)
	}
	nodes, edges := doc.Records()
	return newSnapshot(s.Kind(), nodes, Filter(edges, q)), nil
}

// Ping checks that the object exists
func (s *S3Source) Ping(ctx context.Context) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return s.wrap(err)
	}
	return nil
}

// Close implements Source
func (s *S3Source) Close() error { return nil }

func (s *S3Source) wrap(err error) error {
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noKey) || errors.As(err, &notFound) {
		return fmt.Errorf("%w: s3://%s/%s", ErrNotFound, s.bucket, s.key)
	}
	return fmt.Errorf("s3://%s/%s: %w", s.bucket, s.key, err)
}
