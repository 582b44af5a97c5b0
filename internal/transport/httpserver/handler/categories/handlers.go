package categories

import (
	categorydomain "goal-tracker-go/internal/domain/category"
	goaldomain "goal-tracker-go/internal/domain/goal"
	"goal-tracker-go/pkg/logger"
)

type Handlers struct {
	Categories *categorydomain.Service
	Goals      *goaldomain.Service
	log        logger.Logger
}

func New(categories *categorydomain.Service, goals *goaldomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Categories: categories,
		Goals:      goals,
		log:        log,
	}
}
