package notification

import "context"

type Repository interface {
	CreateMany(ctx context.Context, items []Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
}
