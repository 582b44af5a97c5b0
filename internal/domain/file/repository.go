package file

import (
	"context"
	"io"
	"time"

	"goal-tracker-go/internal/domain/access"
	"goal-tracker-go/internal/domain/goal"
)

type Repository interface {
	Create(ctx context.Context, file *File) error
	GetByID(ctx context.Context, goalID, id string) (*File, error)
	ListByGoal(ctx context.Context, goalID string) ([]File, error)
	CountByGoal(ctx context.Context, goalID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// Storage holds the blobs; the repository holds their metadata.
type Storage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Goals exposes the access facts of the goal a file hangs off.
type Goals interface {
	Facts(ctx context.Context, goalID, userID string) (*goal.Goal, access.Resource, error)
}
