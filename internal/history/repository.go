package history

import "context"

type Repository interface {
	Insert(ctx context.Context, s Search) error
	List(ctx context.Context, limit int) ([]Entry, error)
}
