package teams

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	teamdomain "goal-tracker-go/internal/domain/team"
	"goal-tracker-go/internal/transport/httpserver/handler/common"
	"goal-tracker-go/internal/transport/httpserver/handler/goals"
)

type createTeamRequest struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Description  *string `json:"description"`
	ColorTheme   string  `json:"color_theme" validate:"omitempty,hexcolor"`
	ParentTeamID *string `json:"parent_team_id"`
}

type updateTeamRequest struct {
	Name         *string                 `json:"name" validate:"omitempty,max=100"`
	Description  *string                 `json:"description"`
	ColorTheme   *string                 `json:"color_theme" validate:"omitempty,hexcolor"`
	ParentTeamID common.Optional[string] `json:"parent_team_id"`
	ClearParent  bool                    `json:"clear_parent"`
}

func (h *Handlers) ListTeams(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}

	list, err := h.Teams.ListTeams(r.Context(), user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "teams.list", err, "user_id", user.ID)
		return
	}

	response := make([]teamResponse, 0, len(list))
	for _, details := range list {
		response = append(response, newTeamDetailsResponse(details, false))
	}
	common.WriteJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	var req createTeamRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	created, err := h.Teams.CreateTeam(r.Context(), user.ID, teamdomain.CreateTeamInput{
		Name:         req.Name,
		Description:  req.Description,
		ColorTheme:   req.ColorTheme,
		ParentTeamID: req.ParentTeamID,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "teams.create", err, "user_id", user.ID)
		return
	}
	common.WriteJSON(w, http.StatusCreated, newTeamDetailsResponse(*created, true))
}

func (h *Handlers) GetTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "id")

	details, err := h.Teams.GetTeam(r.Context(), teamID, user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "teams.get", err, "user_id", user.ID, "team_id", teamID)
		return
	}
	common.WriteJSON(w, http.StatusOK, newTeamDetailsResponse(*details, true))
}

func (h *Handlers) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "id")
	var req updateTeamRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	input := teamdomain.UpdateTeamInput{
		Name:        req.Name,
		Description: req.Description,
		ColorTheme:  req.ColorTheme,
		ClearParent: req.ClearParent || req.ParentTeamID.Null(),
	}
	if !input.ClearParent {
		input.ParentTeamID = req.ParentTeamID.Value
	}

	updated, err := h.Teams.UpdateTeam(r.Context(), teamID, user.ID, input)
	if err != nil {
		common.WriteDomainError(w, h.log, "teams.update", err, "user_id", user.ID, "team_id", teamID)
		return
	}
	common.WriteJSON(w, http.StatusOK, newTeamDetailsResponse(*updated, true))
}

func (h *Handlers) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "id")

	if err := h.Teams.DeleteTeam(r.Context(), teamID, user.ID); err != nil {
		common.WriteDomainError(w, h.log, "teams.delete", err, "user_id", user.ID, "team_id", teamID)
		return
	}
	common.NoContent(w)
}

func (h *Handlers) ListTeamGoals(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	teamID := chi.URLParam(r, "id")

	list, err := h.Goals.ListByTeam(r.Context(), teamID, user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "teams.goals", err, "user_id", user.ID, "team_id", teamID)
		return
	}
	common.WriteJSON(w, http.StatusOK, goals.NewGoalResponses(list))
}
