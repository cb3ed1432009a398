package archive

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
)

// GCSStore archives to a Google Cloud Storage bucket.
type GCSStore struct {
	client      *storage.Client
	parallelism int
}

// NewGCSStore uses application default credentials.
func NewGCSStore(ctx context.Context) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSStore{client: client, parallelism: 16}, nil
}

func (g *GCSStore) Close() error {
	return g.client.Close()
}

func (g *GCSStore) Put(ctx context.Context, bucket, name string, data []byte) error {
	w := g.client.Bucket(bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write gs://%s/%s: %w", bucket, name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize gs://%s/%s: %w", bucket, name, err)
	}
	return nil
}

func (g *GCSStore) ListAll(ctx context.Context, bucket string) ([]string, error) {
	it := g.client.Bucket(bucket).Objects(ctx, nil)
	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list gs://%s: %w", bucket, err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

// DeleteMany issues one delete per object; GCS has no batch delete in this client.
func (g *GCSStore) DeleteMany(ctx context.Context, bucket string, keys []string) error {
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelism)
	b := g.client.Bucket(bucket)
	for _, k := range keys {
		eg.Go(func() error {
			err := b.Object(k).Delete(egctx)
			if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
				return fmt.Errorf("failed to delete gs://%s/%s: %w", bucket, k, err)
			}
			return nil
		})
	}
	return eg.Wait()
}
