package goal

import "goal-tracker-go/internal/domain/apperr"

var (
	ErrGoalNotFound        = apperr.New(apperr.NotFound, "goal_not_found", "goal not found")
	ErrParentGoalNotFound  = apperr.New(apperr.NotFound, "parent_goal_not_found", "parent goal not found")
	ErrGoalCycle           = apperr.Validation("goal_cycle", "a goal cannot be nested under itself or one of its sub-goals")
	ErrInvalidTitle        = apperr.Validation("invalid_title", "title must be 1-200 characters")
	ErrInvalidStatus       = apperr.Validation("invalid_status", "status must be 1-50 characters")
	ErrInvalidVisibility   = apperr.Validation("invalid_visibility", "visibility must be private, public or team")
	ErrInvalidDisplayOrder = apperr.Validation("invalid_display_order", "display_order must be non-negative")
	ErrInvalidSort         = apperr.Validation("invalid_sort", "unsupported sort field or direction")
	ErrEmptyAssignment     = apperr.Validation("empty_assignment", "at least one id is required")
	ErrCategoryNotFound    = apperr.New(apperr.NotFound, "category_not_found", "category not found")
	ErrTeamNotFound        = apperr.New(apperr.NotFound, "team_not_found", "team not found")
	ErrNotTeamMember       = apperr.New(apperr.Forbidden, "not_team_member", "you must be a member of every team the goal is assigned to")
	ErrAssignmentNotFound  = apperr.New(apperr.NotFound, "assignment_not_found", "assignment not found")
	ErrTemplateNotFound    = apperr.New(apperr.NotFound, "template_not_found", "template not found")
	ErrReferenceNotFound   = apperr.New(apperr.NotFound, "reference_not_found", "a referenced record no longer exists")
)
