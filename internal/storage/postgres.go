package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
)

const defaultScanPageSize = 500

// PostgresStore implements Store on a single kv_entries table. Prefix scans
// use keyset pagination so callers always see the full result set regardless
// of page size.
type PostgresStore struct {
	db       *sql.DB
	pageSize int
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, pageSize: defaultScanPageSize}
}

// EnsureSchema creates the kv table when it does not exist yet.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS kv_entries (k TEXT PRIMARY KEY, v JSONB NOT NULL)`)
	if err != nil {
		return fmt.Errorf("failed to ensure kv schema: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.db.QueryRowContext(ctx, `SELECT v FROM kv_entries WHERE k = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO kv_entries (k, v) VALUES ($1, $2)
		 ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v`, key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE k = $1`, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (p *PostgresStore) ScanPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	pattern := escapeLike(prefix) + "%"
	var entries []Entry
	last := ""
	for {
		rows, err := p.db.QueryContext(ctx,
			`SELECT k, v FROM kv_entries WHERE k LIKE $1 ESCAPE '\' AND k > $2 ORDER BY k LIMIT $3`,
			pattern, last, p.pageSize)
		if err != nil {
			return nil, fmt.Errorf("scan %q: %w", prefix, err)
		}

		n := 0
		for rows.Next() {
			var e Entry
			if err := rows.Scan(&e.Key, &e.Value); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan %q: %w", prefix, err)
			}
			entries = append(entries, e)
			last = e.Key
			n++
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan %q: %w", prefix, err)
		}
		rows.Close()

		if n < p.pageSize {
			return entries, nil
		}
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
