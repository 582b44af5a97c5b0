package team

import (
	"context"
	"time"

	"goal-tracker-go/internal/domain/access"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateTeam(ctx context.Context, team *Team) error
	GetTeam(ctx context.Context, id string) (*Team, error)
	GetTeams(ctx context.Context, ids []string) ([]Team, error)
	ListChildren(ctx context.Context, parentIDs []string) ([]Team, error)
	UpdateTeam(ctx context.Context, team *Team) error
	SetNestingLevel(ctx context.Context, teamID string, level int) error
	DeleteTeam(ctx context.Context, id string) error

	MemberRole(ctx context.Context, teamID, userID string) (access.Role, error)
	GetMember(ctx context.Context, teamID, userID string) (*Member, error)
	ListMembers(ctx context.Context, teamID string) ([]Member, error)
	ListMemberships(ctx context.Context, userID string) ([]Member, error)
	CountMembers(ctx context.Context, teamIDs []string) (map[string]int64, error)
	CountOwners(ctx context.Context, teamID string) (int64, error)
	AddMember(ctx context.Context, member *Member) error
	UpdateMemberRole(ctx context.Context, teamID, userID string, role access.Role) error
	DeleteMember(ctx context.Context, teamID, userID string) error

	CreateInvitation(ctx context.Context, invitation *Invitation) error
	GetInvitation(ctx context.Context, id string) (*Invitation, error)
	GetInvitationByCode(ctx context.Context, code string) (*Invitation, error)
	ListInvitationsByTeam(ctx context.Context, teamID string) ([]Invitation, error)
	ListPendingInvitationsByEmail(ctx context.Context, email string, now time.Time) ([]Invitation, error)
	HasPendingInvitation(ctx context.Context, teamID, email string, now time.Time) (bool, error)
	SetInvitationStatus(ctx context.Context, id string, status InvitationStatus) error
	IsCodeTaken(ctx context.Context, code string) (bool, error)
}
