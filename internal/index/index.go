// Package index implements SubstringIndex: a concurrent generalized
// suffix trie over the lowercased content of indexed clipboard history,
// supporting incremental insert/delete, time-bounded range queries, and
// top-k ranked substring search (spec.md §4.3). It is grounded on the
// original HostClipboard Trie (search_engine/index_core.rs) and
// generalizes its fixed i32 ids/types to this module's clipboard.Kind
// and int64 ids.
package index

import (
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nathfavour/clipcore/internal/clipboard"
)

type posting struct {
	id         int64
	kind       clipboard.Kind
	capturedAt time.Time
}

type node struct {
	children map[rune]*node
	postings map[int64]posting
}

func newNode() *node {
	return &node{children: make(map[rune]*node), postings: make(map[int64]posting)}
}

// Index is the SubstringIndex. Zero value is not usable; construct with
// New. A single RWMutex realizes the "many concurrent searches, at most
// one in-progress mutation" discipline of spec.md §5 — simpler than
// per-node locking and fast enough for the few-thousand-entry working set
// spec.md §9 anticipates.
type Index struct {
	mu         sync.RWMutex
	root       *node
	timestamps map[int64]map[int64]struct{} // unix seconds -> set of ids
}

// New builds an empty Index.
func New() *Index {
	return &Index{
		root:       newNode(),
		timestamps: make(map[int64]map[int64]struct{}),
	}
}

// record is the minimal shape Insert/Delete need from a HistoryRecord.
type record struct {
	id         int64
	kind       clipboard.Kind
	capturedAt time.Time
	content    string
}

func toRecord(r clipboard.HistoryRecord) record {
	return record{id: r.ID, kind: r.Kind, capturedAt: r.CapturedAt, content: r.DisplayText}
}

// Insert is idempotent w.r.t. id: inserting a record twice leaves the
// index in the same observable state, since every touched posting list
// dedups by id via a map keyed on id.
func (idx *Index) Insert(r clipboard.HistoryRecord) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.insertLocked(toRecord(r))
}

func (idx *Index) insertLocked(rec record) {
	lower := strings.ToLower(rec.content)
	runes := []rune(lower)
	n := len(runes)
	p := posting{id: rec.id, kind: rec.kind, capturedAt: rec.capturedAt}

	for i := 0; i < n; i++ {
		cur := idx.root
		for j := i; j < n; j++ {
			child, ok := cur.children[runes[j]]
			if !ok {
				child = newNode()
				cur.children[runes[j]] = child
			}
			cur = child
			if _, exists := cur.postings[rec.id]; !exists {
				cur.postings[rec.id] = p
			}
		}
	}

	idx.tdInsertLocked(rec.capturedAt.Unix(), rec.id)
}

func (idx *Index) tdInsertLocked(ts, id int64) {
	bucket, ok := idx.timestamps[ts]
	if !ok {
		bucket = make(map[int64]struct{})
		idx.timestamps[ts] = bucket
	}
	bucket[id] = struct{}{}
}

// InsertBatch is semantically equivalent to looping Insert, but
// parallelizes the CPU-bound lowercasing prep work across worker
// goroutines (spec.md §4.3's "permitted to parallelize
// over records", §5's "compute-bound work inside the index ... MAY be
// offloaded to worker threads"). The trie mutation itself still happens
// under a single exclusive lock, preserving the one-writer discipline.
func (idx *Index) InsertBatch(records []clipboard.HistoryRecord) {
	if len(records) == 0 {
		return
	}

	prepared := make([]record, len(records))
	var g errgroup.Group
	for i, r := range records {
		i, r := i, r
		g.Go(func() error {
			rec := toRecord(r)
			rec.content = strings.ToLower(rec.content)
			prepared[i] = rec
			return nil
		})
	}
	_ = g.Wait() // prep goroutines never return an error

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, rec := range prepared {
		// content is already lowercased; insertLocked lowercases again,
		// which is a harmless no-op, keeping one insertion code path.
		idx.insertLocked(rec)
	}
}

// Delete removes every occurrence of record's id from the posting lists
// along all suffix paths of its lowercased content, pruning nodes that
// become childless and empty, and removes it from the timestamp map.
func (idx *Index) Delete(r clipboard.HistoryRecord) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.deleteLocked(toRecord(r))
}

func (idx *Index) deleteLocked(rec record) {
	lower := strings.ToLower(rec.content)
	runes := []rune(lower)
	n := len(runes)

	for i := 0; i < n; i++ {
		path := make([]*node, 1, n-i+1)
		path[0] = idx.root
		cur := idx.root
		for j := i; j < n; j++ {
			child, ok := cur.children[runes[j]]
			if !ok {
				break
			}
			delete(child.postings, rec.id)
			path = append(path, child)
			cur = child
		}

		for k := len(path) - 1; k >= 1; k-- {
			n := path[k]
			if len(n.postings) != 0 || len(n.children) != 0 {
				break
			}
			parent := path[k-1]
			delete(parent.children, runes[i+k-1])
		}
	}

	if bucket, ok := idx.timestamps[rec.capturedAt.Unix()]; ok {
		delete(bucket, rec.id)
		if len(bucket) == 0 {
			delete(idx.timestamps, rec.capturedAt.Unix())
		}
	}
}

// Search walks the trie from the root consuming query character by
// character (case-folded); the node reached aggregates every record
// whose lowercased content contains query as a substring, by
// construction of the suffix trie (spec.md §4.3). Results are filtered
// by kinds (nil: no filter, empty: no results), deduplicated by id, and
// sorted by (captured_at desc, id desc) before truncating to n.
func (idx *Index) Search(query string, n int, kinds []clipboard.Kind) []int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if kinds != nil && len(kinds) == 0 {
		return nil
	}

	lower := strings.ToLower(query)
	cur := idx.root
	for _, r := range lower {
		child, ok := cur.children[r]
		if !ok {
			return nil
		}
		cur = child
	}

	var allow map[clipboard.Kind]bool
	if kinds != nil {
		allow = make(map[clipboard.Kind]bool, len(kinds))
		for _, k := range kinds {
			allow[k] = true
		}
	}

	results := make([]posting, 0, len(cur.postings))
	for _, p := range cur.postings {
		if allow == nil || allow[p.kind] {
			results = append(results, p)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if !results[i].capturedAt.Equal(results[j].capturedAt) {
			return results[i].capturedAt.After(results[j].capturedAt)
		}
		return results[i].id > results[j].id
	})

	if n >= 0 && len(results) > n {
		results = results[:n]
	}

	ids := make([]int64, len(results))
	for i, p := range results {
		ids[i] = p.id
	}
	return ids
}

// IDsOlderThan returns the set of indexed ids whose captured_at is
// strictly before t (exact-open range, spec.md §4.3).
func (idx *Index) IDsOlderThan(t time.Time) []int64 {
	return idx.idsInRange(func(ts int64) bool { return ts < t.Unix() })
}

// IDsNewerThan returns the set of indexed ids whose captured_at is
// strictly after t (exact-open range, spec.md §4.3).
func (idx *Index) IDsNewerThan(t time.Time) []int64 {
	return idx.idsInRange(func(ts int64) bool { return ts > t.Unix() })
}

func (idx *Index) idsInRange(match func(ts int64) bool) []int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var ids []int64
	for ts, bucket := range idx.timestamps {
		if !match(ts) {
			continue
		}
		for id := range bucket {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len reports how many distinct ids are currently indexed, for
// diagnostics.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	seen := make(map[int64]struct{})
	for _, bucket := range idx.timestamps {
		for id := range bucket {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}
