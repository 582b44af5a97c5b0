package statuses

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	statusdomain "goal-tracker-go/internal/domain/status"
	"goal-tracker-go/internal/transport/httpserver/handler/common"
)

type createStatusRequest struct {
	Name         string  `json:"name" validate:"required,max=50"`
	Color        string  `json:"color" validate:"omitempty,hexcolor"`
	Icon         *string `json:"icon" validate:"omitempty,max=50"`
	DisplayOrder int     `json:"display_order" validate:"min=0"`
}

type updateStatusRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=50"`
	Color        *string `json:"color" validate:"omitempty,hexcolor"`
	Icon         *string `json:"icon" validate:"omitempty,max=50"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,min=0"`
}

type statusResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id,omitempty"`
	TeamID       string    `json:"team_id,omitempty"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Icon         *string   `json:"icon"`
	DisplayOrder int       `json:"display_order"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type combinedResponse struct {
	UserStatuses    []statusResponse `json:"user_statuses"`
	TeamStatuses    []statusResponse `json:"team_statuses"`
	DefaultStatuses []string         `json:"default_statuses"`
}

func newUserStatusResponse(status statusdomain.UserStatus) statusResponse {
	return statusResponse{
		ID:           status.ID,
		UserID:       status.UserID,
		Name:         status.Name,
		Color:        status.Color,
		Icon:         status.Icon,
		DisplayOrder: status.DisplayOrder,
		CreatedAt:    status.CreatedAt,
		UpdatedAt:    status.UpdatedAt,
	}
}

func newTeamStatusResponse(status statusdomain.TeamStatus) statusResponse {
	return statusResponse{
		ID:           status.ID,
		TeamID:       status.TeamID,
		Name:         status.Name,
		Color:        status.Color,
		Icon:         status.Icon,
		DisplayOrder: status.DisplayOrder,
		CreatedBy:    status.CreatedBy,
		CreatedAt:    status.CreatedAt,
		UpdatedAt:    status.UpdatedAt,
	}
}

func userStatusResponses(list []statusdomain.UserStatus) []statusResponse {
	response := make([]statusResponse, 0, len(list))
	for _, status := range list {
		response = append(response, newUserStatusResponse(status))
	}
	return response
}

func teamStatusResponses(list []statusdomain.TeamStatus) []statusResponse {
	response := make([]statusResponse, 0, len(list))
	for _, status := range list {
		response = append(response, newTeamStatusResponse(status))
	}
	return response
}

func (req createStatusRequest) input() statusdomain.CreateInput {
	return statusdomain.CreateInput{
		Name:         req.Name,
		Color:        req.Color,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
	}
}

func (req updateStatusRequest) input() statusdomain.UpdateInput {
	return statusdomain.UpdateInput{
		Name:         req.Name,
		Color:        req.Color,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
	}
}

func (h *Handlers) ListUserStatuses(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}

	list, err := h.Statuses.ListUserStatuses(r.Context(), user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "statuses.list", err, "user_id", user.ID)
		return
	}
	common.WriteJSON(w, http.StatusOK, userStatusResponses(list))
}

func (h *Handlers) CreateUserStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	var req createStatusRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	created, err := h.Statuses.CreateUserStatus(r.Context(), user.ID, req.input())
	if err != nil {
		common.WriteDomainError(w, h.log, "statuses.create", err, "user_id", user.ID)
		return
	}
	common.WriteJSON(w, http.StatusCreated, newUserStatusResponse(*created))
}

func (h *Handlers) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	statusID := chi.URLParam(r, "id")
	var req updateStatusRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	updated, err := h.Statuses.UpdateUserStatus(r.Context(), statusID, user.ID, req.input())
	if err != nil {
		common.WriteDomainError(w, h.log, "statuses.update", err, "user_id", user.ID, "status_id", statusID)
		return
	}
	common.WriteJSON(w, http.StatusOK, newUserStatusResponse(*updated))
}

func (h *Handlers) DeleteUserStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	statusID := chi.URLParam(r, "id")

	if err := h.Statuses.DeleteUserStatus(r.Context(), statusID, user.ID); err != nil {
		common.WriteDomainError(w, h.log, "statuses.delete", err, "user_id", user.ID, "status_id", statusID)
		return
	}
	common.NoContent(w)
}

func (h *Handlers) Combined(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}

	combined, err := h.Statuses.Combined(r.Context(), user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "statuses.combined", err, "user_id", user.ID)
		return
	}
	common.WriteJSON(w, http.StatusOK, combinedResponse{
		UserStatuses:    userStatusResponses(combined.UserStatuses),
		TeamStatuses:    teamStatusResponses(combined.TeamStatuses),
		DefaultStatuses: combined.DefaultStatuses,
	})
}

func (h *Handlers) ListTeamStatuses(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "id")

	list, err := h.Statuses.ListTeamStatuses(r.Context(), teamID, user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "team_statuses.list", err, "user_id", user.ID, "team_id", teamID)
		return
	}
	common.WriteJSON(w, http.StatusOK, teamStatusResponses(list))
}

func (h *Handlers) CreateTeamStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "id")
	var req createStatusRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	created, err := h.Statuses.CreateTeamStatus(r.Context(), teamID, user.ID, req.input())
	if err != nil {
		common.WriteDomainError(w, h.log, "team_statuses.create", err, "user_id", user.ID, "team_id", teamID)
		return
	}
	common.WriteJSON(w, http.StatusCreated, newTeamStatusResponse(*created))
}

func (h *Handlers) UpdateTeamStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "id")
	statusID := chi.URLParam(r, "status_id")
	var req updateStatusRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	updated, err := h.Statuses.UpdateTeamStatus(r.Context(), teamID, statusID, user.ID, req.input())
	if err != nil {
		common.WriteDomainError(w, h.log, "team_statuses.update", err, "user_id", user.ID, "team_id", teamID, "status_id", statusID)
		return
	}
	common.WriteJSON(w, http.StatusOK, newTeamStatusResponse(*updated))
}

func (h *Handlers) DeleteTeamStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "id")
	statusID := chi.URLParam(r, "status_id")

	if err := h.Statuses.DeleteTeamStatus(r.Context(), teamID, statusID, user.ID); err != nil {
		common.WriteDomainError(w, h.log, "team_statuses.delete", err, "user_id", user.ID, "team_id", teamID, "status_id", statusID)
		return
	}
	common.NoContent(w)
}
