// Package history records executed searches so they can be recalled and
// re-run later. The log is append-only: entries are never updated or
// deleted, only listed most-recent-first.
package history

import "time"

// Search is a single executed search as it gets recorded.
type Search struct {
	Query     string            `json:"query"`
	Locations []string          `json:"locations,omitempty"`
	Filters   map[string]string `json:"filters,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Entry is one row of the recall list.
type Entry struct {
	Query     string    `json:"query"`
	Locations []string  `json:"locations,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
