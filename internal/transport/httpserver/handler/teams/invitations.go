package teams

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	teamdomain "goal-tracker-go/internal/domain/team"
	"goal-tracker-go/internal/metrics"
	"goal-tracker-go/internal/transport/httpserver/handler/common"
)

type inviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handlers) Invite(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "id")
	var req inviteRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	invitation, err := h.Teams.Invite(r.Context(), teamID, user.ID, req.Email)
	if err != nil {
		common.WriteDomainError(w, h.log, "teams.invite", err, "user_id", user.ID, "team_id", teamID)
		return
	}
	h.metrics.Invitation(metrics.InvitationSent)
	common.WriteJSON(w, http.StatusCreated, newInvitationResponse(*invitation, ""))
}

func (h *Handlers) ListTeamInvitations(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "id")

	invitations, err := h.Teams.ListTeamInvitations(r.Context(), teamID, user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "teams.invitations.list", err, "user_id", user.ID, "team_id", teamID)
		return
	}

	response := make([]invitationResponse, 0, len(invitations))
	for _, invitation := range invitations {
		response = append(response, newInvitationResponse(invitation, ""))
	}
	common.WriteJSON(w, http.StatusOK, response)
}

func (h *Handlers) ListMyInvitations(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	if user.Email == "" {
		common.WriteJSON(w, http.StatusOK, []invitationResponse{})
		return
	}

	invitations, err := h.Teams.ListMyInvitations(r.Context(), user.Email)
	if err != nil {
		common.WriteDomainError(w, h.log, "invitations.list", err, "user_id", user.ID)
		return
	}

	response := make([]invitationResponse, 0, len(invitations))
	for _, details := range invitations {
		response = append(response, newInvitationResponse(details.Invitation, details.TeamName))
	}
	common.WriteJSON(w, http.StatusOK, response)
}

func (h *Handlers) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	invitationID := chi.URLParam(r, "id")

	member, err := h.Teams.AcceptInvitation(r.Context(), invitationID, teamdomain.Caller{ID: user.ID, Email: user.Email})
	if err != nil {
		common.WriteDomainError(w, h.log, "invitations.accept", err, "user_id", user.ID, "invitation_id", invitationID)
		return
	}
	h.metrics.Invitation(metrics.InvitationAccepted)
	common.WriteJSON(w, http.StatusOK, newMemberResponse(*member))
}

func (h *Handlers) DeclineInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	invitationID := chi.URLParam(r, "id")

	if err := h.Teams.DeclineInvitation(r.Context(), invitationID, teamdomain.Caller{ID: user.ID, Email: user.Email}); err != nil {
		common.WriteDomainError(w, h.log, "invitations.decline", err, "user_id", user.ID, "invitation_id", invitationID)
		return
	}
	h.metrics.Invitation(metrics.InvitationDeclined)
	common.NoContent(w)
}

func (h *Handlers) GetInvitationByCode(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	code := chi.URLParam(r, "code")

	details, err := h.Teams.GetInvitationByCode(r.Context(), code)
	if err != nil {
		common.WriteDomainError(w, h.log, "invitations.get_by_code", err, "user_id", user.ID)
		return
	}
	common.WriteJSON(w, http.StatusOK, newInvitationResponse(details.Invitation, details.TeamName))
}

func (h *Handlers) JoinByCode(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	code := chi.URLParam(r, "code")

	member, err := h.Teams.JoinByCode(r.Context(), code, user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "invitations.join", err, "user_id", user.ID)
		return
	}
	h.metrics.Invitation(metrics.InvitationJoined)
	common.WriteJSON(w, http.StatusOK, newMemberResponse(*member))
}
