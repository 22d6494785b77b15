// Package ingest implements IngestPipeline: the single-consumer task
// that drains captured items, persists them, and forwards the persisted
// record onward to the indexer (spec.md §4.4).
package ingest

import (
	"context"
	"time"

	"github.com/nathfavour/clipcore/internal/clipboard"
	"github.com/nathfavour/clipcore/internal/clipcoreerr"
	"github.com/nathfavour/clipcore/internal/logger"
	"github.com/nathfavour/clipcore/internal/store"
)

// drainTimeout bounds how long a shutdown drain may spend persisting
// items still sitting in the channel buffer.
const drainTimeout = 5 * time.Second

// OnNewRecord is the callback IndexerSupervisor exposes to receive
// freshly persisted records (kept as a function type so ingest does not
// import indexer, avoiding a cycle between the two packages).
type OnNewRecord func(record clipboard.HistoryRecord)

// Pipeline drains In, strictly single-consumer, preserving capture order
// into persistence order (spec.md §4.4).
type Pipeline struct {
	In          <-chan clipboard.CapturedItem
	Store       store.HistoryStore
	OnNewRecord OnNewRecord
	Log         logger.Logger
}

// Run drains In until it is closed or ctx is cancelled; on cancellation
// it first persists whatever is still queued (see drain). Append
// errors are logged and the item is dropped from persistence; capture
// continues.
func (p *Pipeline) Run(ctx context.Context) {
	for {
		select {
		case item, ok := <-p.In:
			if !ok {
				return
			}
			p.handle(ctx, item)
		case <-ctx.Done():
			p.drain()
			return
		}
	}
}

func (p *Pipeline) handle(ctx context.Context, item clipboard.CapturedItem) {
	record, err := p.Store.Append(ctx, item)
	if err != nil {
		if clipcoreerr.Is(err, clipcoreerr.CodeStoreAppend) {
			p.Log.Error("append clipboard entry", "error", err, "code", clipcoreerr.CodeStoreAppend)
		} else {
			p.Log.Error("append clipboard entry", "error", err)
		}
		return
	}
	if p.OnNewRecord != nil {
		p.OnNewRecord(record)
	}
}

// drain flushes any items already queued in the channel before Run
// returns. It persists them under a fresh, bounded context rather than
// the run context Run just observed as Done: that context is already
// cancelled, and a context-respecting store (sqlite's ExecContext among
// them) would fail every drained item immediately, silently dropping
// whatever was still queued at shutdown.
func (p *Pipeline) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case item, ok := <-p.In:
			if !ok {
				return
			}
			p.handle(ctx, item)
		default:
			return
		}
	}
}
