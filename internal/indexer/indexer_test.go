package indexer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathfavour/clipcore/internal/clipboard"
	"github.com/nathfavour/clipcore/internal/index"
	"github.com/nathfavour/clipcore/internal/logger"
	"github.com/nathfavour/clipcore/internal/store"
)

type fakeStore struct {
	store.HistoryStore
	all []clipboard.HistoryRecord
}

func (f *fakeStore) ListAfter(ctx context.Context, after time.Time) ([]clipboard.HistoryRecord, error) {
	var out []clipboard.HistoryRecord
	for _, r := range f.all {
		if r.CapturedAt.After(after) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) GetByIDs(ctx context.Context, ids []int64) ([]clipboard.HistoryRecord, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []clipboard.HistoryRecord
	for _, r := range f.all {
		if want[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestHydrateInsertsRecordsWithinRetention(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	fs := &fakeStore{all: []clipboard.HistoryRecord{
		{ID: 1, DisplayText: "stale", Kind: clipboard.KindText, CapturedAt: now.Add(-100 * time.Hour)},
		{ID: 2, DisplayText: "recent", Kind: clipboard.KindText, CapturedAt: now.Add(-1 * time.Hour)},
	}}
	idx := index.New()
	sup := New(fs, idx, nil, 72*time.Hour, time.Second, logger.NewDevelopment())
	sup.Now = func() time.Time { return now }

	require.NoError(t, sup.Hydrate(context.Background()))

	select {
	case <-sup.Ready():
	default:
		t.Fatal("expected Ready to be closed after Hydrate")
	}

	assert.Empty(t, idx.Search("stale", 5, nil))
	assert.Equal(t, []int64{2}, idx.Search("recent", 5, nil))
}

func TestOnNewRecordInsertsWithinWindowOnly(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	idx := index.New()
	sup := New(&fakeStore{}, idx, nil, 72*time.Hour, time.Second, logger.NewDevelopment())
	sup.Now = func() time.Time { return now }

	sup.OnNewRecord(clipboard.HistoryRecord{ID: 1, DisplayText: "fresh", Kind: clipboard.KindText, CapturedAt: now})
	sup.OnNewRecord(clipboard.HistoryRecord{ID: 2, DisplayText: "ancient", Kind: clipboard.KindText, CapturedAt: now.Add(-1000 * time.Hour)})

	assert.Equal(t, []int64{1}, idx.Search("fresh", 5, nil))
	assert.Empty(t, idx.Search("ancient", 5, nil))
}

func TestEvictionRemovesExpiredRecords(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	fs := &fakeStore{all: []clipboard.HistoryRecord{
		{ID: 1, DisplayText: "expired", Kind: clipboard.KindText, CapturedAt: now.Add(-100 * time.Hour)},
	}}
	idx := index.New()
	idx.Insert(fs.all[0])

	sup := New(fs, idx, nil, 72*time.Hour, time.Second, logger.NewDevelopment())
	sup.Now = func() time.Time { return now }

	sup.evictOnce(context.Background())

	assert.Empty(t, idx.Search("expired", 5, nil))
}

func TestEvictionRespectsPerKindRetention(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	retention := map[clipboard.Kind]time.Duration{
		clipboard.KindText:  72 * time.Hour,
		clipboard.KindImage: 1 * time.Hour,
	}
	fs := &fakeStore{all: []clipboard.HistoryRecord{
		{ID: 1, DisplayText: "kept text", Kind: clipboard.KindText, CapturedAt: now.Add(-10 * time.Hour)},
		{ID: 2, DisplayText: "expired image", Kind: clipboard.KindImage, CapturedAt: now.Add(-10 * time.Hour)},
	}}
	idx := index.New()
	idx.Insert(fs.all[0])
	idx.Insert(fs.all[1])

	sup := New(fs, idx, retention, 72*time.Hour, time.Second, logger.NewDevelopment())
	sup.Now = func() time.Time { return now }

	sup.evictOnce(context.Background())

	assert.Equal(t, []int64{1}, idx.Search("kept", 5, nil))
	assert.Empty(t, idx.Search("expired", 5, nil))
}
