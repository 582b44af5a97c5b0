package team

import "goal-tracker-go/internal/domain/apperr"

var (
	ErrTeamNotFound         = apperr.New(apperr.NotFound, "team_not_found", "team not found")
	ErrParentTeamNotFound   = apperr.New(apperr.NotFound, "parent_team_not_found", "parent team not found")
	ErrNotTeamOwner         = apperr.New(apperr.Forbidden, "not_team_owner", "only team owners can perform this action")
	ErrNestingTooDeep       = apperr.New(apperr.CapacityExceeded, "nesting_too_deep", "Maximum team nesting depth (3 levels) would be exceeded")
	ErrTeamCycle            = apperr.Validation("team_cycle", "a team cannot be nested under itself or one of its sub-teams")
	ErrInvalidName          = apperr.Validation("invalid_name", "name must be 1-100 characters")
	ErrInvalidColor         = apperr.Validation("invalid_color", "color_theme must be a hex value like #3B82F6")
	ErrInvalidRole          = apperr.Validation("invalid_role", "role must be owner or member")
	ErrInvalidEmail         = apperr.Validation("invalid_email", "a valid email is required")
	ErrMemberNotFound       = apperr.New(apperr.NotFound, "member_not_found", "team member not found")
	ErrAlreadyMember        = apperr.New(apperr.Conflict, "already_member", "User is already a member of this team")
	ErrLastOwner            = apperr.Validation("last_owner", "a team must keep at least one owner")
	ErrInvitationNotFound   = apperr.New(apperr.NotFound, "invitation_not_found", "invitation not found")
	ErrInvitationExists     = apperr.New(apperr.Conflict, "invitation_exists", "a pending invitation already exists for this email")
	ErrInvitationExpired    = apperr.Validation("invitation_expired", "Invitation has expired")
	ErrInvitationNotPending = apperr.Validation("invitation_not_pending", "Invitation is no longer valid")
	ErrInvitationMismatch   = apperr.New(apperr.Forbidden, "invitation_email_mismatch", "This invitation was sent to a different email address")
	ErrCodeGenerationFailed = apperr.New(apperr.Internal, "code_generation_failed", "could not generate a unique invite code")
)
