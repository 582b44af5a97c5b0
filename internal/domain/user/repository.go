package user

import "context"

type Repository interface {
	UpsertProfile(ctx context.Context, profile *Profile) error
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	ListByIDs(ctx context.Context, userIDs []string) ([]Profile, error)
}
