package template

import "goal-tracker-go/internal/domain/apperr"

var (
	ErrTemplateNotFound  = apperr.New(apperr.NotFound, "template_not_found", "template not found")
	ErrNotTemplateOwner  = apperr.New(apperr.Forbidden, "not_template_owner", "only the template owner can change it")
	ErrInvalidName       = apperr.Validation("invalid_name", "name must be 1-100 characters")
	ErrInvalidTitle      = apperr.Validation("invalid_title_template", "title_template must be 1-200 characters")
	ErrInvalidStatus     = apperr.Validation("invalid_default_status", "default_status must be at most 50 characters")
	ErrInvalidRecurrence = apperr.Validation("invalid_recurrence", "recurring templates need recurrence_type daily, weekly or monthly")
	ErrInvalidInterval   = apperr.Validation("invalid_recurrence_interval", "recurrence_interval must be between 1 and 365")
	ErrTemplateRequired  = apperr.Validation("template_id_required", "template_id is required")
	ErrCategoryNotFound  = apperr.New(apperr.NotFound, "category_not_found", "category not found")
	ErrNotTeamMember     = apperr.New(apperr.Forbidden, "not_team_member", "you must be a member of every default team")
	ErrReferenceNotFound = apperr.New(apperr.NotFound, "reference_not_found", "a referenced category or team no longer exists")
)
