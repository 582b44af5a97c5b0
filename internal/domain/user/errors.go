package user

import "goal-tracker-go/internal/domain/apperr"

var (
	ErrProfileNotFound = apperr.New(apperr.NotFound, "profile_not_found", "profile not found")
	ErrUserIDRequired  = apperr.Validation("user_id_required", "user id is required")
)
