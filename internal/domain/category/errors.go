package category

import "goal-tracker-go/internal/domain/apperr"

var (
	ErrCategoryNotFound = apperr.New(apperr.NotFound, "category_not_found", "category not found")
	ErrCategoryExists   = apperr.New(apperr.Conflict, "category_exists", "category with this name already exists")
	ErrNameRequired     = apperr.Validation("invalid_name", "name must be 1-50 characters")
	ErrInvalidColor     = apperr.Validation("invalid_color", "color must be a hex value like #3B82F6")
	ErrIconTooLong      = apperr.Validation("invalid_icon", "icon must be at most 50 characters")
)
