package capture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathfavour/clipcore/internal/clipboard"
	"github.com/nathfavour/clipcore/internal/logger"
)

type fakeSource struct {
	mu      sync.Mutex
	ticks   []tick
	index   int
	readErr error
}

type tick struct {
	count int64
	snap  clipboard.Snapshot
}

func (f *fakeSource) ChangeCount() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.index >= len(f.ticks) {
		return f.ticks[len(f.ticks)-1].count, nil
	}
	return f.ticks[f.index].count, nil
}

func (f *fakeSource) Read() (clipboard.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return clipboard.Snapshot{}, f.readErr
	}
	snap := f.ticks[f.index].snap
	if f.index < len(f.ticks)-1 {
		f.index++
	}
	return snap, nil
}

func TestLoopSkipsUnchangedCount(t *testing.T) {
	src := &fakeSource{ticks: []tick{
		{count: 1, snap: clipboard.Snapshot{HasText: true, Text: "hello"}},
		{count: 1, snap: clipboard.Snapshot{HasText: true, Text: "hello"}},
	}}
	out := make(chan clipboard.CapturedItem, 10)
	loop := &Loop{
		Source:     src,
		Classifier: clipboard.NewClassifier("", 1000),
		Out:        out,
		Interval:   5 * time.Millisecond,
		Log:        logger.NewDevelopment(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	loop.Run(ctx)

	require.Len(t, out, 1)
	item := <-out
	assert.Equal(t, "hello", item.DisplayText)
}

func TestLoopDedupesByFingerprintAcrossChanges(t *testing.T) {
	src := &fakeSource{ticks: []tick{
		{count: 1, snap: clipboard.Snapshot{HasText: true, Text: "same"}},
		{count: 2, snap: clipboard.Snapshot{HasText: true, Text: "same"}},
		{count: 3, snap: clipboard.Snapshot{HasText: true, Text: "different"}},
	}}
	out := make(chan clipboard.CapturedItem, 10)
	loop := &Loop{
		Source:     src,
		Classifier: clipboard.NewClassifier("", 1000),
		Out:        out,
		Interval:   5 * time.Millisecond,
		Log:        logger.NewDevelopment(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	loop.Run(ctx)

	close(out)
	var items []clipboard.CapturedItem
	for item := range out {
		items = append(items, item)
	}
	require.Len(t, items, 2)
	assert.Equal(t, "same", items[0].DisplayText)
	assert.Equal(t, "different", items[1].DisplayText)
}

func TestLoopLogsAndContinuesOnReadError(t *testing.T) {
	src := &fakeSource{readErr: errors.New("boom"), ticks: []tick{{count: 1}}}
	out := make(chan clipboard.CapturedItem, 10)
	loop := &Loop{
		Source:     src,
		Classifier: clipboard.NewClassifier("", 1000),
		Out:        out,
		Interval:   5 * time.Millisecond,
		Log:        logger.NewDevelopment(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	loop.Run(ctx)

	assert.Empty(t, out)
}
