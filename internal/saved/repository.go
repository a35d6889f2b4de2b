package saved

import "context"

type Repository interface {
	Upsert(ctx context.Context, entry Job) error
	// List returns entries most recently saved first. An empty status
	// returns everything.
	List(ctx context.Context, status Status) ([]Job, error)
	Delete(ctx context.Context, jobID string) error
	CountByStatus(ctx context.Context) (map[Status]int, error)
}
