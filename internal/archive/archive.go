// Package archive records every item a session observes into a SQLite file
// for later analysis. It is an append-only observation log: the dashboard
// never reads it back at startup, so a fresh session still bulk-loads from
// the server.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"newspulse/internal/feed"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	title           TEXT NOT NULL,
	summary         TEXT NOT NULL,
	link            TEXT NOT NULL,
	category        TEXT NOT NULL,
	sentiment_score REAL NOT NULL,
	sentiment_label TEXT NOT NULL,
	published       REAL NOT NULL,
	seen_at         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_items_seen_at ON items(seen_at);
`

// Archive is a SQLite-backed item log.
type Archive struct {
	db *sql.DB
}

// Open opens (or creates) the archive database at dbPath and ensures the
// schema exists.
func Open(dbPath string) (*Archive, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating archive schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close closes the underlying database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Append records one observed item with the current wall time.
func (a *Archive) Append(ctx context.Context, item feed.Item) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO items (title, summary, link, category, sentiment_score, sentiment_label, published, seen_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Title, item.Summary, item.Link, item.NormCategory(),
		item.Sentiment, string(item.Label), item.Published, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}
	return nil
}

// Count returns the number of archived items.
func (a *Archive) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Recent returns up to n archived items, most recently seen first.
func (a *Archive) Recent(ctx context.Context, n int) ([]feed.Item, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT title, summary, link, category, sentiment_score, sentiment_label, published
		 FROM items ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []feed.Item
	for rows.Next() {
		var it feed.Item
		var label string
		if err := rows.Scan(&it.Title, &it.Summary, &it.Link, &it.Category,
			&it.Sentiment, &label, &it.Published); err != nil {
			return nil, err
		}
		it.Label = feed.Label(label)
		items = append(items, it)
	}
	return items, rows.Err()
}
