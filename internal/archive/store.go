package archive

import (
	"context"
	"time"
)

// ObjectStore is the blob store raw feed responses are archived to.
//
// Put is write-once per name. ListAll and DeleteMany are only used by the
// administrative Clear operation, never by the daily pipeline.
type ObjectStore interface {
	Put(ctx context.Context, container, name string, data []byte) error
	ListAll(ctx context.Context, container string) ([]string, error)
	DeleteMany(ctx context.Context, container string, keys []string) error
	Close() error
}

const objectTimeLayout = "2006-01-02_15-04-05"

// ObjectName returns the archive name for a run started at t, e.g.
// NEO-Data2024-01-01_06-30-00.json. The timestamp is UTC with second
// precision so same-day reruns never overwrite each other.
func ObjectName(t time.Time) string {
	return "NEO-Data" + t.UTC().Format(objectTimeLayout) + ".json"
}
