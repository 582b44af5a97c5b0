package notifications

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	notificationdomain "goal-tracker-go/internal/domain/notification"
	"goal-tracker-go/internal/transport/httpserver/handler/common"
)

type notificationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	RelatedID *string   `json:"related_id"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type unreadCountResponse struct {
	Count int64 `json:"count"`
}

func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	unreadOnly, err := common.ParseBoolParam(query.Get("unread_only"))
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_unread_only", "unread_only must be a boolean")
		return
	}
	limit, err := common.ParseIntParam(query.Get("limit"), notificationdomain.DefaultListLimit)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
		return
	}

	list, err := h.Notifications.List(r.Context(), user.ID, unreadOnly, limit)
	if err != nil {
		common.WriteDomainError(w, h.log, "notifications.list", err, "user_id", user.ID)
		return
	}

	response := make([]notificationResponse, 0, len(list))
	for _, n := range list {
		response = append(response, notificationResponse{
			ID:        n.ID,
			UserID:    n.UserID,
			Type:      string(n.Type),
			Title:     n.Title,
			Message:   n.Message,
			RelatedID: n.RelatedID,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	common.WriteJSON(w, http.StatusOK, response)
}

func (h *Handlers) UnreadCount(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}

	count, err := h.Notifications.UnreadCount(r.Context(), user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "notifications.unread_count", err, "user_id", user.ID)
		return
	}
	common.WriteJSON(w, http.StatusOK, unreadCountResponse{Count: count})
}

func (h *Handlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	notificationID := chi.URLParam(r, "id")

	if err := h.Notifications.MarkRead(r.Context(), notificationID, user.ID); err != nil {
		common.WriteDomainError(w, h.log, "notifications.mark_read", err, "user_id", user.ID, "notification_id", notificationID)
		return
	}
	common.NoContent(w)
}

func (h *Handlers) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}

	if err := h.Notifications.MarkAllRead(r.Context(), user.ID); err != nil {
		common.WriteDomainError(w, h.log, "notifications.mark_all_read", err, "user_id", user.ID)
		return
	}
	common.NoContent(w)
}

func (h *Handlers) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	notificationID := chi.URLParam(r, "id")

	if err := h.Notifications.Delete(r.Context(), notificationID, user.ID); err != nil {
		common.WriteDomainError(w, h.log, "notifications.delete", err, "user_id", user.ID, "notification_id", notificationID)
		return
	}
	common.NoContent(w)
}
