package sqlite

import (
	"crypto/rand"
	"fmt"
)

// newUUID generates a random (v4) UUID string for the optional
// cross-process alternate key named in spec.md §6. No external
// dependency is warranted for sixteen random bytes and a fixed format.
func newUUID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failing is effectively unrecoverable; degrade to a
		// zero UUID rather than panic, since the column is an optional
		// alternate key, not the primary one.
		return "00000000-0000-0000-0000-000000000000"
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
