package common

import (
	"context"
	"net/http"
	"time"

	"goal-tracker-go/pkg/logger"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// StoragePinger is implemented by blob stores that can report reachability.
type StoragePinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	db      Pinger
	storage StoragePinger
	log     logger.Logger
}

func New(db Pinger, storage StoragePinger, log logger.Logger) *Handlers {
	return &Handlers{db: db, storage: storage, log: log}
}

func (h *Handlers) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Goal Tracker API",
		"status":  "running",
	})
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// APIHealth reports dependency reachability. It always answers 200.
func (h *Handlers) APIHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	database := "ok"
	if h.db == nil {
		database = "unavailable"
	} else if err := h.db.PingContext(ctx); err != nil {
		h.log.Warn("health: database ping failed", "error", err)
		database = "unavailable"
	}

	storage := "ok"
	if h.storage == nil {
		storage = "unavailable"
	} else if err := h.storage.Ping(ctx); err != nil {
		h.log.Warn("health: storage ping failed", "error", err)
		storage = "unavailable"
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": database,
		"storage":  storage,
	})
}
