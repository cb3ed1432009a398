package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/sync/errgroup"
)

// s3DeleteBatch is the DeleteObjects per-request key limit.
const s3DeleteBatch = 1000

// s3API is the subset of *s3.Client the store uses.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, opts ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// S3Store archives to an S3 bucket.
type S3Store struct {
	client      s3API
	parallelism int
}

// NewS3Store wraps an S3 client. Pass s3.NewFromConfig(awsCfg) in production.
func NewS3Store(client s3API) *S3Store {
	return &S3Store{client: client, parallelism: 4}
}

func (s *S3Store) Close() error { return nil }

func (s *S3Store) Put(ctx context.Context, bucket, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", bucket, name, err)
	}
	return nil
}

// ListAll pages through every key in bucket.
func (s *S3Store) ListAll(ctx context.Context, bucket string) ([]string, error) {
	var keys []string
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{Bucket: aws.String(bucket)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s: %w", bucket, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

// DeleteMany removes keys in batches of 1000, a few batches at a time.
func (s *S3Store) DeleteMany(ctx context.Context, bucket string, keys []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for start := 0; start < len(keys); start += s3DeleteBatch {
		batch := keys[start:min(start+s3DeleteBatch, len(keys))]
		g.Go(func() error {
			ids := make([]types.ObjectIdentifier, 0, len(batch))
			for _, k := range batch {
				ids = append(ids, types.ObjectIdentifier{Key: aws.String(k)})
			}
			out, err := s.client.DeleteObjects(gctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(bucket),
				Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
			})
			if err != nil {
				return fmt.Errorf("delete batch from s3://%s: %w", bucket, err)
			}
			if len(out.Errors) > 0 {
				e := out.Errors[0]
				return fmt.Errorf("delete s3://%s/%s: %s (%d failed)", bucket, aws.ToString(e.Key), aws.ToString(e.Message), len(out.Errors))
			}
			return nil
		})
	}
	return g.Wait()
}
