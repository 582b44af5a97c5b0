package notification

import "goal-tracker-go/internal/domain/apperr"

var (
	ErrNotificationNotFound = apperr.New(apperr.NotFound, "notification_not_found", "notification not found")
	ErrInvalidType          = apperr.New(apperr.ValidationFailed, "invalid_notification_type", "invalid notification type")
)
