package main

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrPageNotFound is returned when no page exists under the requested name.
var ErrPageNotFound = errors.New("page not found")

// Page is a stored template document.
type Page struct {
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// setupPageSchema creates the table for storing pages.
func setupPageSchema(db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS pages (
		name TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// PageStore provides access to the pages stored in the database.
type PageStore struct {
	db *sql.DB
}

// NewPageStore returns a store backed by db. setupPageSchema must have
// been run against the same database.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

// Get returns the page stored under name, or ErrPageNotFound.
func (s *PageStore) Get(ctx context.Context, name string) (Page, error) {
	var p Page
	row := s.db.QueryRowContext(ctx,
		"SELECT name, content, updated_at FROM pages WHERE name = ?", name)
	if err := row.Scan(&p.Name, &p.Content, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Page{}, ErrPageNotFound
		}
		return Page{}, err
	}
	return p, nil
}

// Put stores content under name, replacing any existing page.
func (s *PageStore) Put(ctx context.Context, name, content string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (name, content, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		name, content, time.Now().UTC())
	return err
}

// Delete removes the page stored under name, or returns ErrPageNotFound.
func (s *PageStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE name = ?", name)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPageNotFound
	}
	return nil
}

// Names returns all stored page names in alphabetical order.
func (s *PageStore) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM pages ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var names []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
