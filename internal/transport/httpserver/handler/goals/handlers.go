package goals

import (
	filedomain "goal-tracker-go/internal/domain/file"
	goaldomain "goal-tracker-go/internal/domain/goal"
	"goal-tracker-go/internal/metrics"
	"goal-tracker-go/pkg/logger"
)

type Handlers struct {
	Goals   *goaldomain.Service
	Files   *filedomain.Service
	metrics *metrics.Metrics
	log     logger.Logger
}

func New(goals *goaldomain.Service, files *filedomain.Service, m *metrics.Metrics, log logger.Logger) *Handlers {
	return &Handlers{
		Goals:   goals,
		Files:   files,
		metrics: m,
		log:     log,
	}
}
