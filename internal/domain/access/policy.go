// Package access holds the authorization policy shared by every service.
// Services load the facts about a resource, then ask Can before touching
// the repository.
package access

import (
	"context"

	"goal-tracker-go/internal/domain/apperr"
)

type Role string

const (
	RoleNone   Role = ""
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleMember
}

type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	// ActionAttach covers writes hanging off a resource: file uploads on
	// goals, goal assignment on teams.
	ActionAttach Action = "attach"
	// ActionManage covers team administration: invitations, member roles,
	// team statuses.
	ActionManage Action = "manage"
)

type Kind string

const (
	KindGoal       Kind = "goal"
	KindCategory   Kind = "category"
	KindTemplate   Kind = "template"
	KindUserStatus Kind = "user_status"
	KindTeam       Kind = "team"
	KindMembership Kind = "membership"
	KindFile       Kind = "file"
	KindNotice     Kind = "notification"
)

// Resource is the set of facts a policy decision needs. Only the fields
// relevant to Kind are consulted.
type Resource struct {
	Kind    Kind
	OwnerID string
	Public  bool
	Shared  bool
	// MemberRole is the caller's role in the team the resource belongs to.
	MemberRole Role
	// TeamMember reports whether the caller belongs to any team the goal is
	// assigned to.
	TeamMember    bool
	UploaderID    string
	SubjectUserID string
}

type Memberships interface {
	MemberRole(ctx context.Context, teamID, userID string) (Role, error)
}

func Can(caller string, action Action, res Resource) bool {
	if caller == "" {
		return false
	}

	owner := res.OwnerID != "" && caller == res.OwnerID

	switch res.Kind {
	case KindGoal:
		switch action {
		case ActionRead:
			return owner || res.Public || res.TeamMember
		case ActionAttach:
			return owner || res.TeamMember
		default:
			return owner
		}
	case KindFile:
		switch action {
		case ActionRead:
			return owner || res.Public || res.TeamMember
		case ActionAttach:
			return owner || res.TeamMember
		case ActionDelete:
			return owner || (res.UploaderID != "" && caller == res.UploaderID)
		default:
			return false
		}
	case KindTemplate:
		if action == ActionRead {
			return owner || res.Shared
		}
		return owner
	case KindCategory, KindUserStatus, KindNotice:
		return owner
	case KindTeam:
		switch action {
		case ActionRead, ActionAttach:
			return res.MemberRole != RoleNone
		default:
			return res.MemberRole == RoleOwner
		}
	case KindMembership:
		switch action {
		case ActionRead:
			return res.MemberRole != RoleNone
		case ActionDelete:
			if res.MemberRole == RoleOwner {
				return true
			}
			return res.MemberRole != RoleNone && res.SubjectUserID == caller
		default:
			return res.MemberRole == RoleOwner
		}
	}

	return false
}

// Denial decides how a refused request is reported. Callers that cannot see
// a resource get NotFound so existence is not leaked; callers that can see
// it but lack rights get Forbidden.
func Denial(action Action, res Resource) apperr.Kind {
	switch res.Kind {
	case KindTeam, KindMembership:
		if res.MemberRole == RoleNone {
			return apperr.NotFound
		}
		return apperr.Forbidden
	case KindFile:
		return apperr.Forbidden
	case KindGoal:
		if action != ActionRead && (res.Public || res.TeamMember) {
			return apperr.Forbidden
		}
		return apperr.NotFound
	case KindTemplate:
		if action != ActionRead && res.Shared {
			return apperr.Forbidden
		}
		return apperr.NotFound
	default:
		return apperr.NotFound
	}
}
