package teams

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"goal-tracker-go/internal/domain/access"
	"goal-tracker-go/internal/transport/httpserver/handler/common"
)

type addMemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"omitempty,oneof=owner member"`
}

type updateMemberRequest struct {
	Role string `json:"role" validate:"required,oneof=owner member"`
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "id")

	members, err := h.Teams.ListMembers(r.Context(), teamID, user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "teams.members.list", err, "user_id", user.ID, "team_id", teamID)
		return
	}

	response := make([]memberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, newMemberDetailsResponse(member))
	}
	common.WriteJSON(w, http.StatusOK, response)
}

func (h *Handlers) AddMember(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "id")
	var req addMemberRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	member, err := h.Teams.AddMember(r.Context(), teamID, user.ID, req.UserID, access.Role(req.Role))
	if err != nil {
		common.WriteDomainError(w, h.log, "teams.members.add", err, "user_id", user.ID, "team_id", teamID, "member_id", req.UserID)
		return
	}
	common.WriteJSON(w, http.StatusCreated, newMemberDetailsResponse(*member))
}

func (h *Handlers) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "id")
	memberID := chi.URLParam(r, "user_id")
	var req updateMemberRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	member, err := h.Teams.UpdateMemberRole(r.Context(), teamID, user.ID, memberID, access.Role(req.Role))
	if err != nil {
		common.WriteDomainError(w, h.log, "teams.members.update", err, "user_id", user.ID, "team_id", teamID, "member_id", memberID)
		return
	}
	common.WriteJSON(w, http.StatusOK, newMemberDetailsResponse(*member))
}

func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "id")
	memberID := chi.URLParam(r, "user_id")

	if err := h.Teams.RemoveMember(r.Context(), teamID, user.ID, memberID); err != nil {
		common.WriteDomainError(w, h.log, "teams.members.remove", err, "user_id", user.ID, "team_id", teamID, "member_id", memberID)
		return
	}
	common.NoContent(w)
}
