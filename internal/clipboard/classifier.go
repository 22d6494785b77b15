package clipboard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	"github.com/nathfavour/clipcore/internal/clipcoreerr"
)

// imageExtensions lists the suffixes (case-insensitive) that route a
// Files snapshot entry to Kind Image instead of Kind File, per spec.md
// §4.1 rule 1.
var imageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"bmp":  true,
	"gif":  true,
}

// maxTextBytes is the hard cap above which a text capture is rejected
// entirely (spec.md §4.1 rule 3).
const maxTextBytes = 250_000

// Classifier turns raw ClipboardSource snapshots into CapturedItems.
// FilesRoot is where image side-car blobs get written, and IndexCap is
// the truncation length applied to display_text for indexing (spec.md
// §3's "for text kind it is the text itself, truncated to the indexing
// cap").
type Classifier struct {
	FilesRoot string
	IndexCap  int
	// Now is overridable for deterministic tests; defaults to time.Now.
	Now func() time.Time
}

// NewClassifier builds a Classifier with the given files root and index
// cap.
func NewClassifier(filesRoot string, indexCap int) *Classifier {
	return &Classifier{FilesRoot: filesRoot, IndexCap: indexCap, Now: time.Now}
}

func (c *Classifier) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Classify applies the priority-ordered rules of spec.md §4.1 to a
// snapshot. It returns (nil, nil) when the snapshot yields nothing worth
// capturing (empty/whitespace text); oversized text is also dropped but
// reported back as a CodeTooLarge error so callers can distinguish the
// two.
func (c *Classifier) Classify(snap Snapshot) (*CapturedItem, error) {
	now := c.now()

	// Rule 1: non-empty Files snapshot, classified by suffix. Classify
	// returns one CapturedItem per call, so only the first path is
	// classified; the remaining paths of a multi-file snapshot produce no
	// CapturedItem.
	if len(snap.Files) > 0 {
		return c.classifyFile(snap.Files[0], now), nil
	}

	if snap.HasImage {
		return c.classifyImageBytes(snap.ImageWidth, snap.ImageHeight, snap.ImageBytes, now)
	}

	if snap.HasText {
		return c.classifyText(snap.Text, now)
	}

	return nil, nil
}

func (c *Classifier) classifyFile(path string, now time.Time) *CapturedItem {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	kind := KindFile
	if imageExtensions[ext] {
		kind = KindImage
	}

	size := fileSize(path)
	var display string
	if kind == KindImage {
		display = fmt.Sprintf("Image: %s (%s)", path, size)
	} else {
		display = fmt.Sprintf("File: %s (%s)", path, size)
	}

	return &CapturedItem{
		DisplayText: display,
		Kind:        kind,
		PayloadPath: path,
		Fingerprint: xxhash.Sum64String(path),
		CapturedAt:  now,
	}
}

func (c *Classifier) classifyImageBytes(w, h int, data []byte, now time.Time) (*CapturedItem, error) {
	relPath, err := c.writeImageSideCar(data, now)
	if err != nil {
		return nil, err
	}

	display := fmt.Sprintf("Image: %dx%d (%s)", w, h, humanSize(int64(len(data))))

	return &CapturedItem{
		DisplayText: display,
		Kind:        KindImage,
		Payload:     data,
		PayloadPath: relPath,
		Fingerprint: xxhash.Sum64(data),
		CapturedAt:  now,
	}, nil
}

// writeImageSideCar writes raw clipboard image bytes to
// {FilesRoot}/{YYYYMMDD}/{unix_timestamp}.png, creating directories
// recursively and idempotently (spec.md §6).
func (c *Classifier) writeImageSideCar(data []byte, now time.Time) (string, error) {
	if c.FilesRoot == "" {
		return "", nil
	}
	dir := filepath.Join(c.FilesRoot, now.Format("20060102"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", clipcoreerr.Wrap(err, clipcoreerr.CodeIO, "create side-car dir")
	}
	path := filepath.Join(dir, fmt.Sprintf("%d.png", now.Unix()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", clipcoreerr.Wrap(err, clipcoreerr.CodeIO, "write side-car file")
	}
	return path, nil
}

func (c *Classifier) classifyText(text string, now time.Time) (*CapturedItem, error) {
	if isBlank(text) {
		return nil, nil
	}
	if len(text) > maxTextBytes {
		return nil, clipcoreerr.New(clipcoreerr.CodeTooLarge, "text capture exceeds index cap, dropped")
	}

	display := truncateRunes(text, c.IndexCap)

	return &CapturedItem{
		DisplayText: display,
		Kind:        KindText,
		Fingerprint: xxhash.Sum64String(text),
		CapturedAt:  now,
	}, nil
}

func isBlank(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func truncateRunes(s string, cap int) string {
	if cap <= 0 || len(s) <= cap {
		return s
	}
	// Truncate on a rune boundary so a multi-byte character straddling
	// the cap isn't split into an invalid trailing sequence.
	truncated := s[:cap]
	for len(truncated) > 0 {
		r, size := utf8.DecodeLastRuneInString(truncated)
		if r != utf8.RuneError || size > 1 {
			break
		}
		truncated = truncated[:len(truncated)-size]
	}
	return truncated
}

// fileSize renders a file's size the way spec.md §4.1 wants for the
// File/Image-from-path display_text: a human-readable size, degrading to
// "?" on any stat failure rather than failing classification.
func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "?"
	}
	return humanSize(info.Size())
}

// humanSize formats a byte count with base-1024 units, per spec.md
// §4.1's "Image: {w}x{h} ({human_size})".
func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	units := "KMGTPE"
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), units[exp])
}
