package templates

import (
	templatedomain "goal-tracker-go/internal/domain/template"
	"goal-tracker-go/pkg/logger"
)

type Handlers struct {
	Templates *templatedomain.Service
	log       logger.Logger
}

func New(templates *templatedomain.Service, log logger.Logger) *Handlers {
	return &Handlers{Templates: templates, log: log}
}
