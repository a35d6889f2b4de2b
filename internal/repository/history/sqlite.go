package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	domain "jobfinder/internal/history"
)

// timestampFormat matches SQLite's CURRENT_TIMESTAMP text so explicit and
// default-valued rows stay lexically comparable in ORDER BY.
const timestampFormat = "2006-01-02 15:04:05"

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, search domain.Search) error {
	var locations, filters any
	if len(search.Locations) > 0 {
		b, err := json.Marshal(search.Locations)
		if err != nil {
			return fmt.Errorf("encode locations: %w", err)
		}
		locations = string(b)
	}
	if len(search.Filters) > 0 {
		b, err := json.Marshal(search.Filters)
		if err != nil {
			return fmt.Errorf("encode filters: %w", err)
		}
		filters = string(b)
	}

	const query = `INSERT INTO search_history (query, locations, filters, timestamp) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		search.Query, locations, filters,
		search.CreatedAt.UTC().Format(timestampFormat),
	)
	if err != nil {
		return fmt.Errorf("insert search: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	// DISTINCT collapses identical (query, locations, timestamp) triples;
	// repeats of the same query at different times stay separate rows.
	const query = `SELECT DISTINCT query, locations, timestamp
		FROM search_history
		ORDER BY timestamp DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		var locations sql.NullString
		var ts string
		if err := rows.Scan(&e.Query, &locations, &ts); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		if locations.Valid && locations.String != "" {
			if err := json.Unmarshal([]byte(locations.String), &e.Locations); err != nil {
				return nil, fmt.Errorf("decode locations: %w", err)
			}
		}
		e.Timestamp, _ = time.Parse(timestampFormat, ts)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
