// Package capture implements CaptureLoop: the cooperative task that
// samples a clipboard.Source on a fixed interval, classifies changes,
// and enqueues CapturedItems for IngestPipeline (spec.md §4.2).
package capture

import (
	"context"
	"time"

	"github.com/nathfavour/clipcore/internal/clipboard"
	"github.com/nathfavour/clipcore/internal/clipcoreerr"
	"github.com/nathfavour/clipcore/internal/logger"
)

// Loop polls a clipboard.Source on Interval and pushes classified,
// deduplicated CapturedItems onto Out. It holds no persistent state
// beyond the last observed change count and fingerprint, both private to
// a single Run call.
type Loop struct {
	Source     clipboard.Source
	Classifier *clipboard.Classifier
	Out        chan<- clipboard.CapturedItem
	Interval   time.Duration
	Log        logger.Logger
}

// Run ticks until ctx is cancelled or Out is closed by the caller after
// Run returns. Errors reading the clipboard are logged and the tick is
// skipped; Run itself only returns on context cancellation, matching
// spec.md §4.2's "the loop does not terminate on read errors".
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	var (
		lastChangeCount int64
		seeded          bool
		lastFingerprint uint64
		fingerprinted   bool
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		count, err := l.Source.ChangeCount()
		if err != nil {
			l.Log.Error("read clipboard change count", "error", err)
			continue
		}
		if seeded && count == lastChangeCount {
			continue
		}
		seeded = true
		lastChangeCount = count

		snap, err := l.Source.Read()
		if err != nil {
			if code, ok := clipcoreerr.CodeOf(err); ok {
				l.Log.Error("read clipboard snapshot", "error", err, "code", code)
			} else {
				l.Log.Error("read clipboard snapshot", "error", err)
			}
			continue
		}

		item, err := l.Classifier.Classify(snap)
		if err != nil {
			if clipcoreerr.Is(err, clipcoreerr.CodeTooLarge) {
				l.Log.Warn("clipboard capture dropped", "error", err, "code", clipcoreerr.CodeTooLarge)
			} else {
				l.Log.Error("classify clipboard snapshot", "error", err)
			}
			continue
		}
		if item == nil {
			continue
		}
		if fingerprinted && item.Fingerprint == lastFingerprint {
			continue
		}
		lastFingerprint = item.Fingerprint
		fingerprinted = true

		select {
		case l.Out <- *item:
		case <-ctx.Done():
			return
		}
	}
}
