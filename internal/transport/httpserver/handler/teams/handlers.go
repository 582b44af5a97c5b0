package teams

import (
	goaldomain "goal-tracker-go/internal/domain/goal"
	teamdomain "goal-tracker-go/internal/domain/team"
	"goal-tracker-go/internal/metrics"
	"goal-tracker-go/pkg/logger"
)

type Handlers struct {
	Teams   *teamdomain.Service
	Goals   *goaldomain.Service
	metrics *metrics.Metrics
	log     logger.Logger
}

func New(teams *teamdomain.Service, goals *goaldomain.Service, m *metrics.Metrics, log logger.Logger) *Handlers {
	return &Handlers{
		Teams:   teams,
		Goals:   goals,
		metrics: m,
		log:     log,
	}
}
