package notifications

import (
	notificationdomain "goal-tracker-go/internal/domain/notification"
	"goal-tracker-go/pkg/logger"
)

type Handlers struct {
	Notifications *notificationdomain.Service
	log           logger.Logger
}

func New(notifications *notificationdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{Notifications: notifications, log: log}
}
