package index

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathfavour/clipcore/internal/clipboard"
)

// seedDoc mirrors the (id, content, kind, captured_at) tuples from the
// bad-case scenario found in the source trie's own test module. The kind
// values here are the abstract test kinds from that scenario (1/2/3),
// not this module's Text/Image/File encoding; they only need to be
// distinct and filterable.
type seedDoc struct {
	id         int64
	content    string
	kind       clipboard.Kind
	capturedAt int64
}

var seedDocs = []seedDoc{
	{1, "apple", 1, 1},
	{2, "application", 1, 4},
	{3, "apply", 2, 2},
	{4, "appoint", 2, 6},
	{5, "appointment", 3, 7},
	{6, "苹果商店吃苹果", 3, 8},
	{7, "苹果公司", 1, 9},
	{8, "应用", 2, 11},
	{9, "应用程序", 3, 22},
	{10, "应用商店", 1, 33},
}

func seedIndex(t *testing.T) *Index {
	t.Helper()
	idx := New()
	for _, d := range seedDocs {
		idx.Insert(clipboard.HistoryRecord{
			ID:          d.id,
			DisplayText: d.content,
			Kind:        d.kind,
			CapturedAt:  time.Unix(d.capturedAt, 0),
		})
	}
	return idx
}

func TestSearchExactWord(t *testing.T) {
	idx := seedIndex(t)
	assert.Equal(t, []int64{1}, idx.Search("apple", 5, nil))
}

func TestSearchPrefixRanksByCapturedAtDesc(t *testing.T) {
	idx := seedIndex(t)
	assert.Equal(t, []int64{5, 4, 2, 3, 1}, idx.Search("app", 5, nil))
}

func TestSearchMultibyteContent(t *testing.T) {
	idx := seedIndex(t)
	assert.Equal(t, []int64{7}, idx.Search("苹果公司", 5, nil))
}

func TestSearchKindFilterSingle(t *testing.T) {
	idx := seedIndex(t)
	assert.Equal(t, []int64{9}, idx.Search("应用", 5, []clipboard.Kind{3}))
}

func TestSearchCaseInsensitiveWithKindFilter(t *testing.T) {
	idx := seedIndex(t)
	assert.Equal(t, []int64{4, 2, 3, 1}, idx.Search("APP", 5, []clipboard.Kind{1, 2}))
}

func TestDeleteRemovesFromAllTouchedPaths(t *testing.T) {
	idx := seedIndex(t)
	idx.Delete(clipboard.HistoryRecord{ID: 1, DisplayText: "apple", Kind: 1, CapturedAt: time.Unix(1, 0)})

	assert.Equal(t, []int64{5, 4, 2, 3}, idx.Search("app", 5, nil))
	assert.Equal(t, []int64{2, 3}, idx.Search("l", 5, nil))
}

func TestIDsOlderThan(t *testing.T) {
	idx := seedIndex(t)
	got := idx.IDsOlderThan(time.Unix(6, 0))
	assert.ElementsMatch(t, []int64{1, 2, 3}, got)
}

func TestIDsNewerThan(t *testing.T) {
	idx := seedIndex(t)
	got := idx.IDsNewerThan(time.Unix(22, 0))
	assert.ElementsMatch(t, []int64{10}, got)
}

func TestSearchLimitTruncates(t *testing.T) {
	idx := seedIndex(t)
	got := idx.Search("app", 2, nil)
	require.Len(t, got, 2)
	assert.Equal(t, []int64{5, 4}, got)
}

func TestSearchEmptyKindsReturnsNoResults(t *testing.T) {
	idx := seedIndex(t)
	assert.Empty(t, idx.Search("app", 5, []clipboard.Kind{}))
}

func TestSearchNoMatchReturnsEmpty(t *testing.T) {
	idx := seedIndex(t)
	assert.Empty(t, idx.Search("xyz", 5, nil))
}

func TestInsertThenDeleteRestoresEmptySearch(t *testing.T) {
	idx := New()
	base := clipboard.HistoryRecord{ID: 1, DisplayText: "hello world", Kind: 0, CapturedAt: time.Unix(100, 0)}
	before := idx.Search("hello", 5, nil)

	idx.Insert(base)
	idx.Delete(base)

	after := idx.Search("hello", 5, nil)
	assert.Equal(t, before, after)
	assert.Empty(t, after)
}

func TestInsertIsIdempotentPerID(t *testing.T) {
	idx := New()
	rec := clipboard.HistoryRecord{ID: 42, DisplayText: "duplicate insert", Kind: 0, CapturedAt: time.Unix(5, 0)}
	idx.Insert(rec)
	idx.Insert(rec)

	assert.Equal(t, []int64{42}, idx.Search("duplicate", 5, nil))
	assert.Equal(t, 1, idx.Len())
}

func TestInsertBatchMatchesSequentialInsert(t *testing.T) {
	batch := New()
	records := make([]clipboard.HistoryRecord, 0, len(seedDocs))
	for _, d := range seedDocs {
		records = append(records, clipboard.HistoryRecord{
			ID:          d.id,
			DisplayText: d.content,
			Kind:        d.kind,
			CapturedAt:  time.Unix(d.capturedAt, 0),
		})
	}
	batch.InsertBatch(records)

	sequential := seedIndex(t)
	assert.Equal(t, sequential.Search("app", 10, nil), batch.Search("app", 10, nil))
	assert.Equal(t, sequential.Search("应用", 10, nil), batch.Search("应用", 10, nil))
}

func TestSearchSortingHasNoDuplicateIDs(t *testing.T) {
	idx := seedIndex(t)
	got := idx.Search("app", 10, nil)
	seen := make(map[int64]bool)
	for _, id := range got {
		assert.False(t, seen[id], "duplicate id %d in results", id)
		seen[id] = true
	}
}
