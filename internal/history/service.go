package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const defaultListLimit = 50

type Service struct {
	repo  Repository
	now   func() time.Time
	limit int
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		now:   time.Now,
		limit: defaultListLimit,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type Option func(*Service)

func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLimit sets the list length used when callers pass no limit.
func WithLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.limit = n
		}
	}
}

// Record appends a search to the log. The timestamp is stamped here when
// the caller left it zero.
func (s *Service) Record(ctx context.Context, search Search) error {
	if search.CreatedAt.IsZero() {
		search.CreatedAt = s.now()
	}
	if err := s.repo.Insert(ctx, search); err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	slog.Debug("recorded search", "query", search.Query, "locations", search.Locations)
	return nil
}

// List returns past searches, most recent first. A non-positive limit falls
// back to the configured default.
func (s *Service) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = s.limit
	}
	entries, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}
	return entries, nil
}
