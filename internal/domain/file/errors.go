package file

import "goal-tracker-go/internal/domain/apperr"

var (
	ErrFileNotFound     = apperr.New(apperr.NotFound, "file_not_found", "file not found")
	ErrGoalAccessDenied = apperr.New(apperr.Forbidden, "goal_access_denied", "you don't have access to this goal")
	ErrUploadDenied     = apperr.New(apperr.Forbidden, "upload_denied", "you don't have permission to upload files to this goal")
	ErrDeleteDenied     = apperr.New(apperr.Forbidden, "delete_denied", "only the uploader or goal owner can delete this file")
	ErrFileLimitReached = apperr.New(apperr.CapacityExceeded, "file_limit_reached", "maximum of 10 files per goal exceeded")
	ErrFileTooLarge     = apperr.New(apperr.CapacityExceeded, "file_too_large", "file size exceeds 10MB limit")
	ErrEmptyFile        = apperr.Validation("empty_file", "file is empty")
	ErrInvalidFileName  = apperr.Validation("invalid_file_name", "file name must be at most 255 characters")
)
