// Package sqlite implements store.HistoryStore over a SQLite database
// file, using the host_clipboard relation exactly as specified in
// spec.md §6.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nathfavour/clipcore/internal/clipboard"
	"github.com/nathfavour/clipcore/internal/clipcoreerr"
)

const schema = `
CREATE TABLE IF NOT EXISTS host_clipboard (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	type      INTEGER NOT NULL,
	path      TEXT NOT NULL,
	content   TEXT NOT NULL,
	timestamp INTEGER NOT NULL,
	uuid      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_host_clipboard_timestamp ON host_clipboard(timestamp);
CREATE INDEX IF NOT EXISTS idx_host_clipboard_type ON host_clipboard(type);
`

// Store is a SQLite-backed HistoryStore. *sql.DB pools and
// synchronizes its own connections, so Store needs no additional
// locking of its own.
type Store struct {
	db *sql.DB
}

// Open creates (if necessary) and opens the SQLite database at path,
// creating parent directories and the host_clipboard schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Clipboard writes and reads are infrequent and small; serializing
	// through a single connection avoids SQLITE_BUSY noise without
	// sacrificing meaningful throughput.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Append(ctx context.Context, item clipboard.CapturedItem) (clipboard.HistoryRecord, error) {
	id := newUUID()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO host_clipboard (type, path, content, timestamp, uuid) VALUES (?, ?, ?, ?, ?)`,
		int(item.Kind), item.PayloadPath, item.DisplayText, item.CapturedAt.Unix(), id,
	)
	if err != nil {
		return clipboard.HistoryRecord{}, clipcoreerr.Wrap(err, clipcoreerr.CodeStoreAppend, "append clipboard entry")
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return clipboard.HistoryRecord{}, clipcoreerr.Wrap(err, clipcoreerr.CodeStoreAppend, "read inserted id")
	}

	return clipboard.HistoryRecord{
		ID:          lastID,
		DisplayText: item.DisplayText,
		Kind:        item.Kind,
		Path:        item.PayloadPath,
		CapturedAt:  item.CapturedAt,
	}, nil
}

func (s *Store) GetByIDs(ctx context.Context, ids []int64) ([]clipboard.HistoryRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]byte, 0, len(ids)*2)
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT id, type, path, content, timestamp FROM host_clipboard WHERE id IN (%s) ORDER BY timestamp DESC, id DESC`,
		placeholders,
	)
	return s.query(ctx, query, args...)
}

func (s *Store) ListAfter(ctx context.Context, after time.Time) ([]clipboard.HistoryRecord, error) {
	return s.query(ctx,
		`SELECT id, type, path, content, timestamp FROM host_clipboard WHERE timestamp > ? ORDER BY timestamp DESC, id DESC`,
		after.Unix(),
	)
}

func (s *Store) ListRecent(ctx context.Context, limit int, kinds []clipboard.Kind, cutoffs map[clipboard.Kind]time.Time) ([]clipboard.HistoryRecord, error) {
	query := `SELECT id, type, path, content, timestamp FROM host_clipboard WHERE (`
	args := []interface{}{}

	allKinds := []clipboard.Kind{clipboard.KindText, clipboard.KindImage, clipboard.KindFile}
	candidates := allKinds
	if kinds != nil {
		candidates = kinds
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	for i, k := range candidates {
		if i > 0 {
			query += " OR "
		}
		cutoff := int64(0)
		if cutoffs != nil {
			if c, ok := cutoffs[k]; ok {
				cutoff = c.Unix()
			}
		}
		query += `(type = ? AND timestamp > ?)`
		args = append(args, int(k), cutoff)
	}
	query += `) ORDER BY timestamp DESC, id DESC`

	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	return s.query(ctx, query, args...)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM host_clipboard WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete clipboard entry: %w", err)
	}
	return nil
}

func (s *Store) query(ctx context.Context, query string, args ...interface{}) ([]clipboard.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, clipcoreerr.Wrap(err, clipcoreerr.CodeStoreQuery, "query clipboard entries")
	}
	defer rows.Close()

	var records []clipboard.HistoryRecord
	for rows.Next() {
		var (
			rec  clipboard.HistoryRecord
			kind int
			ts   int64
		)
		if err := rows.Scan(&rec.ID, &kind, &rec.Path, &rec.DisplayText, &ts); err != nil {
			return nil, clipcoreerr.Wrap(err, clipcoreerr.CodeStoreQuery, "scan clipboard entry")
		}
		rec.Kind = clipboard.Kind(kind)
		rec.CapturedAt = time.Unix(ts, 0)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, clipcoreerr.Wrap(err, clipcoreerr.CodeStoreQuery, "iterate clipboard entries")
	}
	return records, nil
}
