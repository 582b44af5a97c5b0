package statuses

import (
	statusdomain "goal-tracker-go/internal/domain/status"
	"goal-tracker-go/pkg/logger"
)

type Handlers struct {
	Statuses *statusdomain.Service
	log      logger.Logger
}

func New(statuses *statusdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{Statuses: statuses, log: log}
}
