package repository

import (
	"context"
	"database/sql"

	"github.com/jask/dashgrid/internal/database"
)

// DefaultRevisions is how many past values KVRepo keeps per key.
const DefaultRevisions = 20

// KVRepo is a string key-value register with a bounded revision history per
// key.
type KVRepo struct {
	db   *sql.DB
	keep int
}

// NewKVRepo returns a repo keeping the last keep values per key. keep <= 0
// uses DefaultRevisions.
func NewKVRepo(db *sql.DB, keep int) *KVRepo {
	if keep <= 0 {
		keep = DefaultRevisions
	}
	return &KVRepo{db: db, keep: keep}
}

func (r *KVRepo) GetRaw(ctx context.Context, key string) (string, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

// SetRaw writes the value and records it as the newest revision, pruning
// revisions beyond the retention limit.
func (r *KVRepo) SetRaw(ctx context.Context, key, value string) error {
	now := database.Now()
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO kv_store(key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at;
		`, key, value, now); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO kv_revisions(key, value, saved_at) VALUES (?, ?, ?)`, key, value, now); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
		DELETE FROM kv_revisions
		WHERE key = ? AND id NOT IN (
			SELECT id FROM kv_revisions WHERE key = ? ORDER BY id DESC LIMIT ?
		)`, key, key, r.keep)
		return err
	})
}

// History returns stored revisions for key, newest first.
func (r *KVRepo) History(ctx context.Context, key string) ([]Revision, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, key, value, saved_at FROM kv_revisions WHERE key = ? ORDER BY id DESC`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Revision
	for rows.Next() {
		var rev Revision
		if err := rows.Scan(&rev.ID, &rev.Key, &rev.Value, &rev.SavedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

// Revision returns one stored revision by id, or nil when it does not exist.
func (r *KVRepo) Revision(ctx context.Context, id int64) (*Revision, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, key, value, saved_at FROM kv_revisions WHERE id = ?`, id)
	var rev Revision
	if err := row.Scan(&rev.ID, &rev.Key, &rev.Value, &rev.SavedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rev, nil
}
