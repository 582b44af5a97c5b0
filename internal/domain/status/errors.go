package status

import "goal-tracker-go/internal/domain/apperr"

var (
	ErrStatusNotFound      = apperr.New(apperr.NotFound, "status_not_found", "status not found")
	ErrStatusExists        = apperr.New(apperr.Conflict, "status_exists", "status with this name already exists")
	ErrTeamNotFound        = apperr.New(apperr.NotFound, "team_not_found", "team not found")
	ErrNotTeamOwner        = apperr.New(apperr.Forbidden, "not_team_owner", "only team owners can manage team statuses")
	ErrInvalidName         = apperr.Validation("invalid_name", "name must be 1-50 characters")
	ErrInvalidColor        = apperr.Validation("invalid_color", "color must be a hex value like #3B82F6")
	ErrInvalidIcon         = apperr.Validation("invalid_icon", "icon must be at most 50 characters")
	ErrInvalidDisplayOrder = apperr.Validation("invalid_display_order", "display_order must be non-negative")
)
