// Package catalog resolves exercise IDs and names to threshold profile
// categories. The catalog is a local SQLite database seeded from an
// exercise mapping file by repsense-import.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/claude/repsense/internal/engine"
)

// ErrNotFound is returned when no exercise matches the given id or name.
var ErrNotFound = errors.New("exercise not found")

// Exercise is one catalog entry.
type Exercise struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category engine.Category `json:"category"`
}

// Catalog is a read-mostly exercise store.
type Catalog struct {
	db *sql.DB
}

// Open opens (or creates) the catalog database at the given path.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS exercises (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		category TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating exercises table: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_exercises_name ON exercises(name)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating name index: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Upsert inserts or replaces one exercise.
func (c *Catalog) Upsert(ctx context.Context, e Exercise) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO exercises (id, name, category) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, category = excluded.category`,
		e.ID, e.Name, string(e.Category))
	if err != nil {
		return fmt.Errorf("upserting exercise %s: %w", e.ID, err)
	}
	return nil
}

// Lookup resolves an exercise by id first, then by exact case-insensitive
// name. A miss on both falls back to a keyword-derived entry so sessions
// can bind to exercises the catalog has never seen: the category heuristic
// runs once here, at bind time, never per frame.
func (c *Catalog) Lookup(ctx context.Context, idOrName string) (*Exercise, error) {
	q := strings.TrimSpace(idOrName)
	if q == "" {
		return nil, ErrNotFound
	}

	var e Exercise
	var cat string
	err := c.db.QueryRowContext(ctx,
		`SELECT id, name, category FROM exercises WHERE id = ? OR lower(name) = lower(?) LIMIT 1`,
		q, q).Scan(&e.ID, &e.Name, &cat)
	if err == nil {
		e.Category = engine.Category(cat)
		return &e, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("looking up exercise: %w", err)
	}

	// Free-text name: accept if the keyword heuristic recognizes it.
	if cat := CategoryForName(q); cat != engine.CategoryDefault || looksLikeName(q) {
		return &Exercise{
			ID:       syntheticID(q),
			Name:     strings.ToLower(q),
			Category: cat,
		}, nil
	}
	return nil, ErrNotFound
}

// List returns up to limit exercises ordered by name.
func (c *Catalog) List(ctx context.Context, limit int) ([]Exercise, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, name, category FROM exercises ORDER BY name LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	defer rows.Close()

	var out []Exercise
	for rows.Next() {
		var e Exercise
		var cat string
		if err := rows.Scan(&e.ID, &e.Name, &cat); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		e.Category = engine.Category(cat)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of catalog entries.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting exercises: %w", err)
	}
	return n, nil
}

// looksLikeName accepts multi-word free text as a plausible exercise name.
func looksLikeName(q string) bool {
	return strings.ContainsAny(q, " -_")
}

// syntheticID derives a stable id from a free-text exercise name.
func syntheticID(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
