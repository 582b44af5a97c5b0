package status

import "context"

type Repository interface {
	CreateUserStatus(ctx context.Context, status *UserStatus) error
	GetUserStatus(ctx context.Context, id string) (*UserStatus, error)
	ListUserStatuses(ctx context.Context, userID string) ([]UserStatus, error)
	UpdateUserStatus(ctx context.Context, status *UserStatus) error
	DeleteUserStatus(ctx context.Context, id string) error

	CreateTeamStatus(ctx context.Context, status *TeamStatus) error
	GetTeamStatus(ctx context.Context, id string) (*TeamStatus, error)
	ListTeamStatuses(ctx context.Context, teamID string) ([]TeamStatus, error)
	// ListMemberTeamStatuses returns the statuses of every team userID
	// belongs to.
	ListMemberTeamStatuses(ctx context.Context, userID string) ([]TeamStatus, error)
	UpdateTeamStatus(ctx context.Context, status *TeamStatus) error
	DeleteTeamStatus(ctx context.Context, id string) error
}
