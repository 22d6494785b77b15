package clipboard

// Snapshot is the sum-type read from a ClipboardSource on each poll:
// exactly one of the three fields is populated, matching spec.md §6's
// try_get_files / try_get_image / try_get_text cases.
type Snapshot struct {
	Files []string

	HasImage    bool
	ImageWidth  int
	ImageHeight int
	ImageBytes  []byte

	HasText bool
	Text    string
}

// Empty reports whether the snapshot carries no content at all.
func (s Snapshot) Empty() bool {
	return len(s.Files) == 0 && !s.HasImage && !s.HasText
}

// Source is the external ClipboardSource contract (spec.md §6). It is
// consulted only from CaptureLoop. ChangeCount must strictly increase
// whenever the host clipboard's contents change; CaptureLoop uses it for
// fast no-op detection before paying the cost of a full read.
type Source interface {
	ChangeCount() (int64, error)
	Read() (Snapshot, error)
}
