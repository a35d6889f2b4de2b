package saved

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"jobfinder/internal/apperror"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save upserts one entry. A blank status defaults to "saved"; unknown
// statuses are rejected before the store is touched.
func (s *Service) Save(ctx context.Context, entry Job) error {
	if strings.TrimSpace(entry.Job.ID) == "" {
		return apperror.New(apperror.BadRequest, "job id is required")
	}
	if entry.Status == "" {
		entry.Status = StatusSaved
	}
	if _, err := ParseStatus(string(entry.Status)); err != nil {
		return apperror.New(apperror.BadRequest, err.Error())
	}
	if err := s.repo.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	slog.Info("saved job", "id", entry.Job.ID, "status", entry.Status)
	return nil
}

// List returns saved entries, most recently saved first. A non-empty status
// narrows the list; unknown values are rejected.
func (s *Service) List(ctx context.Context, status string) ([]Job, error) {
	var st Status
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		parsed, err := ParseStatus(trimmed)
		if err != nil {
			return nil, apperror.New(apperror.BadRequest, err.Error())
		}
		st = parsed
	}
	entries, err := s.repo.List(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("list saved jobs: %w", err)
	}
	return entries, nil
}

// Delete removes one entry. Deleting an id that was never saved is a no-op,
// not an error.
func (s *Service) Delete(ctx context.Context, jobID string) error {
	if strings.TrimSpace(jobID) == "" {
		return apperror.New(apperror.BadRequest, "job id is required")
	}
	if err := s.repo.Delete(ctx, jobID); err != nil {
		return fmt.Errorf("delete saved job: %w", err)
	}
	slog.Info("deleted saved job", "id", jobID)
	return nil
}

// Stats returns the number of saved entries per status.
func (s *Service) Stats(ctx context.Context) (map[Status]int, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count saved jobs: %w", err)
	}
	return counts, nil
}
