// Package systemclip provides the default clipboard.Source, backed by
// github.com/atotto/clipboard for the text path (the teacher's chosen
// cross-platform clipboard library).
package systemclip

import (
	"fmt"
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	clip "github.com/nathfavour/clipcore/internal/clipboard"
	"github.com/nathfavour/clipcore/internal/clipcoreerr"
)

// FileProber extends text-only clipboard access with OS-specific file
// and image probing. atotto/clipboard exposes no such API, so a host
// application wires in its own platform prober; a nil FileProber leaves
// Source text-only, which still satisfies the full CaptureLoop/Classifier
// contract for the common case of copied text.
type FileProber interface {
	// Files returns absolute paths currently on the pasteboard, or nil
	// if the pasteboard holds no file references.
	Files() ([]string, error)
	// Image returns raw image bytes and dimensions currently on the
	// pasteboard, or ok=false if the pasteboard holds no image.
	Image() (width, height int, data []byte, ok bool, err error)
}

// Source is the default clipboard.Source implementation. It tracks its
// own monotonic change counter by comparing against the last-seen
// clipboard contents, since atotto/clipboard exposes no native change
// count across platforms.
type Source struct {
	mu       sync.Mutex
	prober   FileProber
	lastText string
	count    int64
	seeded   bool
}

// New builds a Source. prober may be nil for text-only operation.
func New(prober FileProber) *Source {
	return &Source{prober: prober}
}

// ChangeCount implements clip.Source. It polls the underlying clipboard
// for text changes (and, if a FileProber is wired, file/image changes)
// and bumps an internal monotonic counter whenever content differs from
// the last observed snapshot.
func (s *Source) ChangeCount() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, _ := clipboard.ReadAll()
	if s.prober != nil {
		if files, err := s.prober.Files(); err == nil && len(files) > 0 {
			text += "\x00files\x00" + strings.Join(files, "\x00")
		}
		if w, h, data, ok, err := s.prober.Image(); err == nil && ok {
			text += fmt.Sprintf("\x00image\x00%dx%d\x00", w, h) + string(data)
		}
	}
	if !s.seeded {
		s.lastText = text
		s.seeded = true
		s.count = 1
		return s.count, nil
	}
	if text != s.lastText {
		s.lastText = text
		s.count++
	}
	return s.count, nil
}

// Read implements clip.Source, preferring files, then images, then text,
// matching the priority order of spec.md §4.1's classification rules.
func (s *Source) Read() (clip.Snapshot, error) {
	if s.prober != nil {
		if files, err := s.prober.Files(); err == nil && len(files) > 0 {
			return clip.Snapshot{Files: files}, nil
		}
		if w, h, data, ok, err := s.prober.Image(); err == nil && ok {
			return clip.Snapshot{HasImage: true, ImageWidth: w, ImageHeight: h, ImageBytes: data}, nil
		}
	}

	text, err := clipboard.ReadAll()
	if err != nil {
		return clip.Snapshot{}, clipcoreerr.Wrap(err, clipcoreerr.CodeIO, "read system clipboard text")
	}
	if text == "" {
		return clip.Snapshot{}, nil
	}
	return clip.Snapshot{HasText: true, Text: text}, nil
}
