package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/guttosm/neopulse/config"
)

func TestObjectName(t *testing.T) {
	at := time.Date(2024, 1, 1, 1, 2, 3, 999, time.FixedZone("BRT", -3*3600))
	if got := ObjectName(at); got != "NEO-Data2024-01-01_04-02-03.json" {
		t.Fatalf("ObjectName = %s", got)
	}
	if ObjectName(at) == ObjectName(at.Add(time.Second)) {
		t.Fatalf("names one second apart must differ")
	}
}

func TestLocalStore_PutListDelete(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	store, err := NewLocalStore(base)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	if names, err := store.ListAll(ctx, "raw"); err != nil || len(names) != 0 {
		t.Fatalf("empty container: names=%v err=%v", names, err)
	}

	for _, n := range []string{"b.json", "a.json"} {
		if err := store.Put(ctx, "raw", n, []byte(`{"n":"`+n+`"}`)); err != nil {
			t.Fatalf("Put %s: %v", n, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(base, "raw", "a.json"))
	if err != nil || string(data) != `{"n":"a.json"}` {
		t.Fatalf("stored bytes = %q err=%v", data, err)
	}

	names, err := store.ListAll(ctx, "raw")
	if err != nil || !reflect.DeepEqual(names, []string{"a.json", "b.json"}) {
		t.Fatalf("ListAll = %v err=%v", names, err)
	}

	if err := store.DeleteMany(ctx, "raw", []string{"a.json", "missing.json"}); err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}
	names, _ = store.ListAll(ctx, "raw")
	if !reflect.DeepEqual(names, []string{"b.json"}) {
		t.Fatalf("after delete = %v", names)
	}
}

// fakeS3 is an in-memory s3API.
type fakeS3 struct {
	mu        sync.Mutex
	objects   map[string][]byte
	pageSize  int
	batches   []int
	deleteErr error
	putErr    error
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}, pageSize: 1000} }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	buf, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = buf
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		start, _ = strconv.Atoi(*in.ContinuationToken)
	}
	end := min(start+f.pageSize, len(keys))
	out := &s3.ListObjectsV2Output{}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(keys) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *fakeS3) DeleteObjects(_ context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, len(in.Delete.Objects))
	for _, o := range in.Delete.Objects {
		delete(f.objects, aws.ToString(o.Key))
	}
	return &s3.DeleteObjectsOutput{}, nil
}

func TestS3Store_Put(t *testing.T) {
	fake := newFakeS3()
	store := NewS3Store(fake)
	if err := store.Put(context.Background(), "bucket", "NEO-Data.json", []byte("raw")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if string(fake.objects["NEO-Data.json"]) != "raw" {
		t.Fatalf("object body = %q", fake.objects["NEO-Data.json"])
	}

	fake.putErr = errors.New("access denied")
	if err := store.Put(context.Background(), "bucket", "x", nil); err == nil {
		t.Fatalf("expected put error")
	}
}

func TestS3Store_ListAllPaginates(t *testing.T) {
	fake := newFakeS3()
	fake.pageSize = 2
	for i := 0; i < 5; i++ {
		fake.objects[fmt.Sprintf("k%d", i)] = nil
	}
	keys, err := NewS3Store(fake).ListAll(context.Background(), "bucket")
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"k0", "k1", "k2", "k3", "k4"}) {
		t.Fatalf("keys = %v", keys)
	}
}

func TestClear_S3BatchesOf1000(t *testing.T) {
	fake := newFakeS3()
	for i := 0; i < 2500; i++ {
		fake.objects[fmt.Sprintf("NEO-Data%05d.json", i)] = nil
	}

	n, err := Clear(context.Background(), NewS3Store(fake), "bucket")
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 2500 || len(fake.objects) != 0 {
		t.Fatalf("deleted=%d remaining=%d", n, len(fake.objects))
	}
	total := 0
	for _, b := range fake.batches {
		if b > 1000 {
			t.Fatalf("batch of %d exceeds 1000", b)
		}
		total += b
	}
	if len(fake.batches) != 3 || total != 2500 {
		t.Fatalf("batches = %v", fake.batches)
	}
}

func TestClear_EmptyAndFailure(t *testing.T) {
	fake := newFakeS3()
	store := NewS3Store(fake)
	if n, err := Clear(context.Background(), store, "bucket"); err != nil || n != 0 {
		t.Fatalf("empty: n=%d err=%v", n, err)
	}
	if len(fake.batches) != 0 {
		t.Fatalf("no delete call expected on empty bucket")
	}

	fake.objects["a"] = nil
	fake.deleteErr = errors.New("throttled")
	if _, err := Clear(context.Background(), store, "bucket"); err == nil {
		t.Fatalf("expected delete failure to surface")
	}
}

func TestNewObjectStore(t *testing.T) {
	ctx := context.Background()

	store, err := NewObjectStore(ctx, config.ArchiveConfig{Backend: config.ArchiveLocal, LocalDir: t.TempDir()}, aws.Config{})
	if err != nil {
		t.Fatalf("local: %v", err)
	}
	if _, ok := store.(*LocalStore); !ok {
		t.Fatalf("local backend returned %T", store)
	}

	store, err = NewObjectStore(ctx, config.ArchiveConfig{Backend: config.ArchiveS3}, aws.Config{Region: "us-east-2"})
	if err != nil {
		t.Fatalf("s3: %v", err)
	}
	if _, ok := store.(*S3Store); !ok {
		t.Fatalf("s3 backend returned %T", store)
	}

	if _, err := NewObjectStore(ctx, config.ArchiveConfig{Backend: "ftp"}, aws.Config{}); err == nil {
		t.Fatalf("expected unsupported backend error")
	}
}
