// Package clipboard defines the clipboard data model and the
// ContentClassifier that turns a raw pasteboard snapshot into a
// CapturedItem (spec.md §3, §4.1).
package clipboard

import "time"

// Kind is the closed tagged enumeration of clipboard content kinds.
// The integer values are a stable wire encoding and must never change.
type Kind int

const (
	KindText  Kind = 0
	KindImage Kind = 1
	KindFile  Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// CapturedItem is a clipboard snapshot that has been classified and
// deduplicated but not yet persisted.
type CapturedItem struct {
	DisplayText string
	Kind        Kind
	// Payload is the raw image bytes for an image read from clipboard
	// bytes; nil for text and for file-sourced items. PayloadPath is the
	// source file path for file-sourced items, or the side-car path of a
	// clipboard image.
	Payload     []byte
	PayloadPath string
	Fingerprint uint64
	CapturedAt  time.Time
}

// HistoryRecord is a CapturedItem after persistence: it carries an
// immutable id and its on-disk path.
type HistoryRecord struct {
	ID          int64
	DisplayText string
	Kind        Kind
	Path        string
	CapturedAt  time.Time
}

// IndexEntry is the indexed projection of a HistoryRecord.
type IndexEntry struct {
	ID         int64
	Kind       Kind
	CapturedAt time.Time
}
